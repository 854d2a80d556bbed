package entity

import (
	"database/sql"

	"github.com/questparty/backend/pkg/enum"
)

type QuestType string

var (
	QuestIndividual     = enum.New(QuestType("individual"))
	QuestPartyInternal  = enum.New(QuestType("party_internal"))
	QuestPartyExpansion = enum.New(QuestType("party_expansion"))
	QuestHybrid         = enum.New(QuestType("hybrid"))
)

type QuestStatusType string

var (
	QuestDraft      = enum.New(QuestStatusType("draft"))
	QuestActive     = enum.New(QuestStatusType("active"))
	QuestInProgress = enum.New(QuestStatusType("in_progress"))
	QuestCompleted  = enum.New(QuestStatusType("completed"))
	QuestCancelled  = enum.New(QuestStatusType("cancelled"))
	QuestArchived   = enum.New(QuestStatusType("archived"))
)

type QuestCategoryType string

var (
	CategoryGaming       = enum.New(QuestCategoryType("gaming"))
	CategoryProfessional = enum.New(QuestCategoryType("professional"))
	CategorySocial       = enum.New(QuestCategoryType("social"))
	CategoryLearning     = enum.New(QuestCategoryType("learning"))
	CategoryCreative     = enum.New(QuestCategoryType("creative"))
	CategoryFitness      = enum.New(QuestCategoryType("fitness"))
	CategoryTravel       = enum.New(QuestCategoryType("travel"))
)

type VisibilityType string

var (
	VisibilityPublic   = enum.New(VisibilityType("public"))
	VisibilityUnlisted = enum.New(VisibilityType("unlisted"))
	VisibilityPrivate  = enum.New(VisibilityType("private"))
)

type LocationType string

var (
	LocationRemote   = enum.New(LocationType("remote"))
	LocationInPerson = enum.New(LocationType("in_person"))
	LocationHybrid   = enum.New(LocationType("hybrid"))
)

type CommitmentType string

var (
	CommitmentCasual       = enum.New(CommitmentType("casual"))
	CommitmentModerate     = enum.New(CommitmentType("moderate"))
	CommitmentSerious      = enum.New(CommitmentType("serious"))
	CommitmentProfessional = enum.New(CommitmentType("professional"))
)

type Quest struct {
	Base

	CreatorID string
	Creator   User `gorm:"foreignKey:CreatorID"`

	// PartyID is set for quests created from inside a party.
	PartyID sql.NullString
	Party   *Party `gorm:"foreignKey:PartyID"`

	Type        QuestType
	Status      QuestStatusType
	Category    QuestCategoryType
	Title       string
	Description []byte `gorm:"type:longtext"`
	Objective   []byte `gorm:"type:longtext"`

	PartySizeMin     int
	PartySizeMax     int
	CurrentPartySize int
	ApplicationCount int
	ViewCount        int

	RequiredCommitment CommitmentType
	LocationType       LocationType
	LocationDetail     string
	EstimatedDuration  string
	AutoApprove        bool
	Visibility         VisibilityType

	StartsAt    sql.NullTime
	Deadline    sql.NullTime
	ActivatedAt sql.NullTime
	CompletedAt sql.NullTime
}
