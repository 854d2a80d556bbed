package domain

import (
	"testing"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestUserDomain() UserDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewAchievementRepository(),
	)
}

func Test_userDomain_GetMeAndGetUser(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestUserDomain()

	meResp, err := d.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, meResp.User.ID)
	require.Equal(t, testutil.User1.Email, meResp.User.Email)

	// Public profiles hide the email.
	getResp, err := d.GetUser(ctx, &model.GetUserRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, getResp.User.ID)
	require.Empty(t, getResp.User.Email)

	_, err = d.GetUser(ctx, &model.GetUserRequest{UserID: "nobody"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)
}

func Test_userDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestUserDomain()

	_, err := d.Update(ctx, &model.UpdateUserRequest{Name: "ab"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Name must have from 3 to 50 characters"), err)

	_, err = d.Update(ctx, &model.UpdateUserRequest{Name: testutil.User2.Name})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Duplicated name"), err)

	resp, err := d.Update(ctx, &model.UpdateUserRequest{
		Name:     "alice-renamed",
		Bio:      "I organize weekend hikes.",
		Location: "Lisbon",
		Timezone: "Europe/Lisbon",
	})
	require.NoError(t, err)
	require.Equal(t, "alice-renamed", resp.User.Name)
	require.Equal(t, "I organize weekend hikes.", resp.User.Bio)
	require.Equal(t, "Lisbon", resp.User.Location)
}

func Test_userDomain_GetAchievements(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestUserDomain()

	achievementRepo := repository.NewAchievementRepository()
	inserted, err := achievementRepo.Upsert(ctx, &entity.Achievement{
		Base:   entity.Base{ID: "achievement1"},
		UserID: testutil.User1.ID,
		Type:   entity.AchievementFirstQuest,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	// Re-awarding the same achievement is a no-op.
	inserted, err = achievementRepo.Upsert(ctx, &entity.Achievement{
		Base:   entity.Base{ID: "achievement2"},
		UserID: testutil.User1.ID,
		Type:   entity.AchievementFirstQuest,
	})
	require.NoError(t, err)
	require.False(t, inserted)

	resp, err := d.GetAchievements(ctx, &model.GetUserAchievementsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Achievements, 1)
	require.Equal(t, string(entity.AchievementFirstQuest), resp.Achievements[0].Type)

	otherResp, err := d.GetAchievements(ctx, &model.GetUserAchievementsRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Empty(t, otherResp.Achievements)
}
