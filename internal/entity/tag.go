package entity

import "github.com/questparty/backend/pkg/enum"

type TagCategoryType string

var (
	// Technical
	TagProgramming = enum.New(TagCategoryType("PROGRAMMING"))
	TagFramework   = enum.New(TagCategoryType("FRAMEWORK"))
	TagTool        = enum.New(TagCategoryType("TOOL"))

	// Gaming
	TagGame      = enum.New(TagCategoryType("GAME"))
	TagGameGenre = enum.New(TagCategoryType("GAME_GENRE"))

	// Creative
	TagArt   = enum.New(TagCategoryType("ART"))
	TagMusic = enum.New(TagCategoryType("MUSIC"))
	TagMedia = enum.New(TagCategoryType("MEDIA"))

	// Physical activities
	TagSport   = enum.New(TagCategoryType("SPORT"))
	TagFitness = enum.New(TagCategoryType("FITNESS"))

	// Knowledge and learning
	TagLanguage = enum.New(TagCategoryType("LANGUAGE"))
	TagSubject  = enum.New(TagCategoryType("SUBJECT"))

	// General
	TagSkill    = enum.New(TagCategoryType("SKILL"))
	TagHobby    = enum.New(TagCategoryType("HOBBY"))
	TagLocation = enum.New(TagCategoryType("LOCATION"))
	TagStyle    = enum.New(TagCategoryType("STYLE"))
)

var TagCategories = []TagCategoryType{
	TagProgramming, TagFramework, TagTool,
	TagGame, TagGameGenre,
	TagArt, TagMusic, TagMedia,
	TagSport, TagFitness,
	TagLanguage, TagSubject,
	TagSkill, TagHobby, TagLocation, TagStyle,
}

type TagStatusType string

var (
	TagSystem         = enum.New(TagStatusType("SYSTEM"))
	TagApproved       = enum.New(TagStatusType("APPROVED"))
	TagPendingReview  = enum.New(TagStatusType("PENDING"))
	TagRejectedReview = enum.New(TagStatusType("REJECTED"))
)

type ProficiencyType string

var (
	ProficiencyBeginner     = enum.New(ProficiencyType("BEGINNER"))
	ProficiencyIntermediate = enum.New(ProficiencyType("INTERMEDIATE"))
	ProficiencyAdvanced     = enum.New(ProficiencyType("ADVANCED"))
	ProficiencyExpert       = enum.New(ProficiencyType("EXPERT"))
)

type Tag struct {
	Base

	Name        string `gorm:"unique"`
	Slug        string `gorm:"unique"`
	Category    TagCategoryType
	Status      TagStatusType
	Description string
	UsageCount  int
}

type UserTag struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
	TagID  string `gorm:"primaryKey"`
	Tag    Tag    `gorm:"foreignKey:TagID"`

	Proficiency ProficiencyType
	IsPrimary   bool
}

func (t *UserTag) TableName() string {
	return "user_tags"
}

type QuestTag struct {
	QuestID string `gorm:"primaryKey"`
	Quest   Quest  `gorm:"foreignKey:QuestID"`
	TagID   string `gorm:"primaryKey"`
	Tag     Tag    `gorm:"foreignKey:TagID"`

	IsRequired     bool
	MinProficiency ProficiencyType
}

func (t *QuestTag) TableName() string {
	return "quest_tags"
}
