package entity

import (
	"database/sql"

	"github.com/questparty/backend/pkg/enum"
)

type PartyStatusType string

var (
	PartyActive    = enum.New(PartyStatusType("ACTIVE"))
	PartyCompleted = enum.New(PartyStatusType("COMPLETED"))
	PartyArchived  = enum.New(PartyStatusType("ARCHIVED"))
)

type Party struct {
	Base

	// QuestID points to the quest whose closure formed this party.
	QuestID string `gorm:"unique"`
	Quest   Quest  `gorm:"foreignKey:QuestID"`

	Name        string
	Description []byte `gorm:"type:longtext"`
	Status      PartyStatusType

	FormedAt    sql.NullTime
	CompletedAt sql.NullTime
	ArchivedAt  sql.NullTime
}
