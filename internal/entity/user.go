package entity

import "database/sql"

type User struct {
	Base
	Email          string `gorm:"unique"`
	HashedPassword string
	Name           string `gorm:"unique"`
	Bio            []byte `gorm:"type:longtext"`
	Location       string
	Timezone       string
	Role           string `gorm:"default:USER"`

	// Aggregates recomputed by the rating and quest domains.
	ReputationScore      float64
	QuestCompletionRate  float64
	TotalCompletedQuests int
	TotalJoinedQuests    int
	RatingCount          int

	LastActiveAt sql.NullTime
}

const (
	SuperAdminRole = "SUPER_ADMIN"
	AdminRole      = "ADMIN"
	UserRole       = "USER"
)

var GlobalAdminRoles = []string{SuperAdminRole, AdminRole}
