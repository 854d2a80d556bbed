package entity

import (
	"time"

	"github.com/questparty/backend/pkg/enum"
)

type AchievementType string

var (
	AchievementFirstQuest    = enum.New(AchievementType("first_quest_completed"))
	AchievementFiveQuests    = enum.New(AchievementType("five_quests_completed"))
	AchievementPerfectRating = enum.New(AchievementType("first_perfect_rating"))
)

type Achievement struct {
	Base

	UserID string          `gorm:"index:idx_achievements_unique,unique"`
	User   User            `gorm:"foreignKey:UserID"`
	Type   AchievementType `gorm:"index:idx_achievements_unique,unique"`

	AwardedAt time.Time
}
