package entity

import (
	"time"

	"github.com/questparty/backend/pkg/enum"
)

type MessageStatusType string

var (
	MessageVisible = enum.New(MessageStatusType("visible"))
	MessageEdited  = enum.New(MessageStatusType("edited"))
	MessageDeleted = enum.New(MessageStatusType("deleted"))
)

type Message struct {
	ID        int64  `gorm:"primaryKey"`
	PartyID   string `gorm:"index"`
	UserID    string
	Status    MessageStatusType
	Content   string `gorm:"type:longtext"`
	ReplyTo   int64
	CreatedAt time.Time
}

func (m *Message) TableName() string {
	return "messages"
}
