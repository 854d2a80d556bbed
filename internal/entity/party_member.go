package entity

import (
	"database/sql"
	"time"

	"github.com/questparty/backend/pkg/enum"
)

type PartyRole string

var (
	RoleOwner     = enum.New(PartyRole("OWNER"))
	RoleModerator = enum.New(PartyRole("MODERATOR"))
	RoleMember    = enum.New(PartyRole("MEMBER"))
)

var ManagerGroup = []PartyRole{RoleOwner, RoleModerator}

type MemberStatusType string

var (
	MemberActive   = enum.New(MemberStatusType("active"))
	MemberInactive = enum.New(MemberStatusType("inactive"))
	MemberRemoved  = enum.New(MemberStatusType("removed"))
)

type PartyMember struct {
	PartyID string `gorm:"primaryKey"`
	Party   Party  `gorm:"foreignKey:PartyID"`
	UserID  string `gorm:"primaryKey"`
	User    User   `gorm:"foreignKey:UserID"`

	Role     PartyRole
	Status   MemberStatusType
	JoinedAt time.Time
	LeftAt   sql.NullTime
}

func (m *PartyMember) TableName() string {
	return "party_members"
}
