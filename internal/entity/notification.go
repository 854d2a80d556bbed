package entity

import (
	"database/sql"

	"github.com/questparty/backend/pkg/enum"
)

type NotificationType string

var (
	NotifyApplicationReceived = enum.New(NotificationType("application_received"))
	NotifyApplicationApproved = enum.New(NotificationType("application_approved"))
	NotifyApplicationRejected = enum.New(NotificationType("application_rejected"))
	NotifyPartyCompleted      = enum.New(NotificationType("party_completed"))
	NotifyMemberRemoved       = enum.New(NotificationType("member_removed"))
)

type Notification struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type     NotificationType
	Title    string
	Content  []byte `gorm:"type:longtext"`
	Metadata Map

	IsRead bool
	ReadAt sql.NullTime
}
