package entity

type Rating struct {
	Base

	QuestID string `gorm:"index:idx_ratings_unique,unique"`
	Quest   Quest  `gorm:"foreignKey:QuestID"`

	RaterID string `gorm:"index:idx_ratings_unique,unique"`
	Rater   User   `gorm:"foreignKey:RaterID"`

	RatedUserID string `gorm:"index:idx_ratings_unique,unique"`
	RatedUser   User   `gorm:"foreignKey:RatedUserID"`

	// Scores are 1..5 on every dimension.
	Overall       int
	Collaboration int
	Communication int
	Reliability   int
	Skill         int

	Review                []byte `gorm:"type:longtext"`
	WouldCollaborateAgain bool
}

func (r *Rating) TableName() string {
	return "ratings"
}
