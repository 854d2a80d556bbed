package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:  entity.Base{ID: "user1"},
		Email: "user1@example.com",
		Name:  "alice",
		Role:  entity.UserRole,
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2"},
		Email: "user2@example.com",
		Name:  "bob",
		Role:  entity.UserRole,
	}

	User3 = entity.User{
		Base:  entity.Base{ID: "user3"},
		Email: "user3@example.com",
		Name:  "carol",
		Role:  entity.UserRole,
	}

	Admin = entity.User{
		Base:  entity.Base{ID: "admin"},
		Email: "admin@example.com",
		Name:  "admin",
		Role:  entity.AdminRole,
	}

	Tag1 = entity.Tag{
		Base:     entity.Base{ID: "tag1"},
		Name:     "Go",
		Slug:     "go",
		Category: entity.TagProgramming,
		Status:   entity.TagApproved,
	}

	Tag2 = entity.Tag{
		Base:     entity.Base{ID: "tag2"},
		Name:     "Board Games",
		Slug:     "board-games",
		Category: entity.TagHobby,
		Status:   entity.TagPendingReview,
	}

	// Quest1 is an active individual quest by User1 that is still recruiting.
	Quest1 = entity.Quest{
		Base:             entity.Base{ID: "quest1"},
		CreatorID:        User1.ID,
		Type:             entity.QuestIndividual,
		Status:           entity.QuestActive,
		Category:         entity.CategoryProfessional,
		Title:            "Build a weekend hackathon project",
		Description:      []byte("We need a small team to prototype an idea over one weekend."),
		Objective:        []byte("Ship a working demo by Sunday night."),
		PartySizeMin:     2,
		PartySizeMax:     3,
		CurrentPartySize: 1,
		ApplicationCount: 1,
		Visibility:       entity.VisibilityPublic,
		ActivatedAt:      sql.NullTime{Valid: true, Time: time.Now().Add(-24 * time.Hour)},
	}

	// Quest2 is in progress with Party1 already formed.
	Quest2 = entity.Quest{
		Base:             entity.Base{ID: "quest2"},
		CreatorID:        User1.ID,
		Type:             entity.QuestIndividual,
		Status:           entity.QuestInProgress,
		Category:         entity.CategoryGaming,
		Title:            "Weekly board game night crew",
		Description:      []byte("Looking for regulars to join a weekly board game session."),
		Objective:        []byte("Meet every week and finish a campaign."),
		PartySizeMin:     2,
		PartySizeMax:     4,
		CurrentPartySize: 3,
		Visibility:       entity.VisibilityPublic,
		ActivatedAt:      sql.NullTime{Valid: true, Time: time.Now().Add(-72 * time.Hour)},
	}

	Party1 = entity.Party{
		Base:     entity.Base{ID: "party1"},
		QuestID:  Quest2.ID,
		Name:     Quest2.Title,
		Status:   entity.PartyActive,
		FormedAt: sql.NullTime{Valid: true, Time: time.Now().Add(-48 * time.Hour)},
	}

	Party1Owner = entity.PartyMember{
		PartyID:  Party1.ID,
		UserID:   User1.ID,
		Role:     entity.RoleOwner,
		Status:   entity.MemberActive,
		JoinedAt: time.Now().Add(-48 * time.Hour),
	}

	Party1Moderator = entity.PartyMember{
		PartyID:  Party1.ID,
		UserID:   User2.ID,
		Role:     entity.RoleModerator,
		Status:   entity.MemberActive,
		JoinedAt: time.Now().Add(-48 * time.Hour),
	}

	Party1Member = entity.PartyMember{
		PartyID:  Party1.ID,
		UserID:   User3.ID,
		Role:     entity.RoleMember,
		Status:   entity.MemberActive,
		JoinedAt: time.Now().Add(-48 * time.Hour),
	}

	Application1 = entity.Application{
		Base:        entity.Base{ID: "application1"},
		QuestID:     Quest1.ID,
		ApplicantID: User2.ID,
		Status:      entity.ApplicationPending,
		Message:     []byte("I would love to join this project."),
	}
)

func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertTags(ctx)
	insertQuests(ctx)
	insertParties(ctx)
	insertApplications(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2, User3, Admin} {
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func insertTags(ctx context.Context) {
	tagRepo := repository.NewTagRepository()
	for _, tag := range []entity.Tag{Tag1, Tag2} {
		if err := tagRepo.Create(ctx, &tag); err != nil {
			panic(err)
		}
	}
}

func insertQuests(ctx context.Context) {
	questRepo := repository.NewQuestRepository()
	for _, quest := range []entity.Quest{Quest1, Quest2} {
		if err := questRepo.Create(ctx, &quest); err != nil {
			panic(err)
		}
	}
}

func insertParties(ctx context.Context) {
	partyRepo := repository.NewPartyRepository()
	if err := partyRepo.Create(ctx, &Party1); err != nil {
		panic(err)
	}

	partyMemberRepo := repository.NewPartyMemberRepository()
	members := []entity.PartyMember{Party1Owner, Party1Moderator, Party1Member}
	for _, member := range members {
		if err := partyMemberRepo.Create(ctx, &member); err != nil {
			panic(err)
		}
	}
}

func insertApplications(ctx context.Context) {
	applicationRepo := repository.NewApplicationRepository()
	if err := applicationRepo.Create(ctx, &Application1); err != nil {
		panic(err)
	}
}
