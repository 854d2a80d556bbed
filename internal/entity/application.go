package entity

import (
	"database/sql"

	"github.com/questparty/backend/pkg/enum"
)

type ApplicationStatusType string

var (
	ApplicationPending   = enum.New(ApplicationStatusType("PENDING"))
	ApplicationApproved  = enum.New(ApplicationStatusType("APPROVED"))
	ApplicationRejected  = enum.New(ApplicationStatusType("REJECTED"))
	ApplicationWithdrawn = enum.New(ApplicationStatusType("WITHDRAWN"))
)

type Application struct {
	Base

	QuestID string
	Quest   Quest `gorm:"foreignKey:QuestID"`

	ApplicantID string
	Applicant   User `gorm:"foreignKey:ApplicantID"`

	Status         ApplicationStatusType
	Message        []byte `gorm:"type:longtext"`
	ProposedRole   string
	RelevantSkills []byte `gorm:"type:longtext"`

	ReviewerFeedback []byte `gorm:"type:longtext"`
	ReviewedAt       sql.NullTime
}
