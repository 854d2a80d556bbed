package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// materializeParty turns a closed quest into party membership. It must run
// inside the transaction that moved the quest to in_progress.
//
// Quests without an origin party get a fresh party with the creator as
// OWNER and every approved applicant as MEMBER. Expansion quests append the
// approved applicants to the origin party. Internal quests change nothing.
func materializeParty(
	ctx context.Context,
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	applicationRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	quest *entity.Quest,
) (*entity.Party, error) {
	approved, err := applicationRepo.GetApproved(ctx, quest.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if quest.PartyID.Valid {
		party, err := partyRepo.GetByID(ctx, quest.PartyID.String)
		if err != nil {
			return nil, err
		}

		if quest.Type == entity.QuestPartyInternal {
			return party, nil
		}

		for _, application := range approved {
			if err := addApprovedMember(ctx, partyMemberRepo, userRepo, party.ID, application.ApplicantID, now); err != nil {
				return nil, err
			}
		}

		return party, nil
	}

	party := &entity.Party{
		Base:     entity.Base{ID: uuid.NewString()},
		QuestID:  quest.ID,
		Name:     quest.Title,
		Status:   entity.PartyActive,
		FormedAt: sql.NullTime{Valid: true, Time: now},
	}

	if err := partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}

	err = partyMemberRepo.Create(ctx, &entity.PartyMember{
		PartyID:  party.ID,
		UserID:   quest.CreatorID,
		Role:     entity.RoleOwner,
		Status:   entity.MemberActive,
		JoinedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := userRepo.IncreaseQuestCounters(ctx, quest.CreatorID, 0, 1); err != nil {
		return nil, err
	}

	for _, application := range approved {
		if err := addApprovedMember(ctx, partyMemberRepo, userRepo, party.ID, application.ApplicantID, now); err != nil {
			return nil, err
		}
	}

	return party, nil
}

func addApprovedMember(
	ctx context.Context,
	partyMemberRepo repository.PartyMemberRepository,
	userRepo repository.UserRepository,
	partyID, userID string,
	joinedAt time.Time,
) error {
	_, err := partyMemberRepo.Get(ctx, partyID, userID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	err = partyMemberRepo.Create(ctx, &entity.PartyMember{
		PartyID:  partyID,
		UserID:   userID,
		Role:     entity.RoleMember,
		Status:   entity.MemberActive,
		JoinedAt: joinedAt,
	})
	if err != nil {
		return err
	}

	return userRepo.IncreaseQuestCounters(ctx, userID, 0, 1)
}

// closeQuest moves an active quest to in_progress and materializes its
// party. Callers must already hold a transaction and have verified the
// closure guard.
func closeQuest(
	ctx context.Context,
	questRepo repository.QuestRepository,
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	applicationRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	quest *entity.Quest,
) (*entity.Party, error) {
	err := questRepo.UpdateStatus(ctx, quest.ID,
		[]entity.QuestStatusType{entity.QuestActive},
		&entity.Quest{Status: entity.QuestInProgress})
	if err != nil {
		return nil, err
	}

	quest.Status = entity.QuestInProgress
	return materializeParty(ctx, partyRepo, partyMemberRepo, applicationRepo, userRepo, quest)
}

func convertPartyWithMembers(
	ctx context.Context,
	partyMemberRepo repository.PartyMemberRepository,
	userRepo repository.UserRepository,
	party *entity.Party,
) (model.Party, error) {
	members, err := partyMemberRepo.GetList(ctx, party.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get party members: %v", err)
		return model.Party{}, errorx.Unknown
	}

	userIDs := []string{}
	for _, member := range members {
		userIDs = append(userIDs, member.UserID)
	}

	users, err := userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get party member users: %v", err)
		return model.Party{}, errorx.Unknown
	}

	userByID := map[string]entity.User{}
	for _, user := range users {
		userByID[user.ID] = user
	}

	converted := []model.PartyMember{}
	for i := range members {
		user, ok := userByID[members[i].UserID]
		if !ok {
			continue
		}

		converted = append(converted, model.ConvertPartyMember(&members[i], &user))
	}

	return model.ConvertParty(party, converted), nil
}

type applicationMetadata struct {
	QuestID       string `mapstructure:"quest_id"`
	QuestTitle    string `mapstructure:"quest_title"`
	ApplicationID string `mapstructure:"application_id"`
}

type partyMetadata struct {
	PartyID   string `mapstructure:"party_id"`
	PartyName string `mapstructure:"party_name"`
}

func notify(
	ctx context.Context,
	notificationRepo repository.NotificationRepository,
	userID string,
	typ entity.NotificationType,
	title, content string,
	metadata any,
) error {
	decoded := entity.Map{}
	if metadata != nil {
		if err := mapstructure.Decode(metadata, &decoded); err != nil {
			return err
		}
	}

	return notificationRepo.Create(ctx, &entity.Notification{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Type:     typ,
		Title:    title,
		Content:  []byte(content),
		Metadata: decoded,
	})
}

// awardCompletionAchievements awards milestone achievements after the user's
// completed-quest counter reached completedCount. Upsert keeps it idempotent.
func awardCompletionAchievements(
	ctx context.Context,
	achievementRepo repository.AchievementRepository,
	userID string,
	completedCount int,
) error {
	now := time.Now()
	milestones := []struct {
		typ      entity.AchievementType
		required int
	}{
		{entity.AchievementFirstQuest, 1},
		{entity.AchievementFiveQuests, 5},
	}

	for _, m := range milestones {
		if completedCount < m.required {
			continue
		}

		_, err := achievementRepo.Upsert(ctx, &entity.Achievement{
			Base:      entity.Base{ID: uuid.NewString()},
			UserID:    userID,
			Type:      m.typ,
			AwardedAt: now,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Valid: true, Time: t}
}

func parseTime(ctx context.Context, s string) (sql.NullTime, bool) {
	if s == "" {
		return sql.NullTime{}, true
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse time %s: %v", s, err)
		return sql.NullTime{}, false
	}

	return sql.NullTime{Valid: true, Time: t}, true
}
