package entity

type QuestMerge struct {
	Base

	SourceQuestID string
	SourceQuest   Quest `gorm:"foreignKey:SourceQuestID"`

	TargetQuestID string
	TargetQuest   Quest `gorm:"foreignKey:TargetQuestID"`

	MergedBy     string
	MergedByUser User `gorm:"foreignKey:MergedBy"`

	MovedApplications int
}
