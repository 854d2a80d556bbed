package domain

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestRatingDomain() RatingDomain {
	return NewRatingDomain(
		repository.NewRatingRepository(),
		repository.NewQuestRepository(),
		repository.NewPartyRepository(),
		repository.NewPartyMemberRepository(),
		repository.NewUserRepository(),
		repository.NewAchievementRepository(),
		&testutil.MockRedisClient{},
	)
}

func validSubmitRatingRequest(ratedUserID string) *model.SubmitRatingRequest {
	return &model.SubmitRatingRequest{
		QuestID:               testutil.Quest2.ID,
		RatedUserID:           ratedUserID,
		Overall:               4,
		Collaboration:         4,
		Communication:         5,
		Reliability:           4,
		Skill:                 3,
		Review:                "Reliable and fun to play with.",
		WouldCollaborateAgain: true,
	}
}

// completeFixtureParty moves Party1 to COMPLETED so the rating window opens.
func completeFixtureParty(t *testing.T, ctx context.Context, completedAt time.Time) {
	t.Helper()
	partyRepo := repository.NewPartyRepository()
	err := partyRepo.UpdateStatus(ctx, testutil.Party1.ID, entity.PartyActive, &entity.Party{
		Status:      entity.PartyCompleted,
		CompletedAt: sql.NullTime{Valid: true, Time: completedAt},
	})
	require.NoError(t, err)
}

func Test_ratingDomain_Submit_Failed(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestRatingDomain()

	_, err := d.Submit(ctx, validSubmitRatingRequest(testutil.User2.ID))
	require.Equal(t, errorx.New(errorx.BadRequest, "Cannot rate yourself"), err)

	outOfRange := validSubmitRatingRequest(testutil.User3.ID)
	outOfRange.Overall = 6
	_, err = d.Submit(ctx, outOfRange)
	require.Equal(t, errorx.New(errorx.BadRequest, "Scores must be between 1 and 5"), err)

	// Party1 is still ACTIVE, so the window has not opened.
	_, err = d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.Equal(t, errorx.New(errorx.Unavailable, "The rating window has not opened yet"), err)

	// Once the window has elapsed, submissions are rejected as well.
	completeFixtureParty(t, ctx, time.Now().Add(-8*24*time.Hour))
	_, err = d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.Equal(t, errorx.New(errorx.Unavailable, "The rating window has closed"), err)
}

func Test_ratingDomain_Submit_ArchivedParty(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestRatingDomain()

	// Archiving closes the window even inside the seven days.
	completeFixtureParty(t, ctx, time.Now())
	partyRepo := repository.NewPartyRepository()
	err := partyRepo.UpdateStatus(ctx, testutil.Party1.ID, entity.PartyCompleted,
		&entity.Party{Status: entity.PartyArchived, ArchivedAt: sql.NullTime{Valid: true, Time: time.Now()}})
	require.NoError(t, err)

	_, err = d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.Equal(t, errorx.New(errorx.Unavailable, "The rating window has closed"), err)
}

func Test_ratingDomain_UpdateDelete_WindowClosed(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestRatingDomain()

	completeFixtureParty(t, ctx, time.Now())
	resp, err := d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.NoError(t, err)

	partyRepo := repository.NewPartyRepository()
	err = partyRepo.UpdateStatus(ctx, testutil.Party1.ID, entity.PartyCompleted,
		&entity.Party{Status: entity.PartyArchived, ArchivedAt: sql.NullTime{Valid: true, Time: time.Now()}})
	require.NoError(t, err)

	// Ratings freeze together with the party.
	_, err = d.Update(ctx, &model.UpdateRatingRequest{
		RatingID:              resp.Rating.ID,
		Overall:               5,
		Collaboration:         5,
		Communication:         5,
		Reliability:           5,
		Skill:                 5,
		WouldCollaborateAgain: true,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "The rating window has closed"), err)

	_, err = d.Delete(ctx, &model.DeleteRatingRequest{RatingID: resp.Rating.ID})
	require.Equal(t, errorx.New(errorx.Unavailable, "The rating window has closed"), err)
}

func Test_ratingDomain_Submit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestRatingDomain()

	completeFixtureParty(t, ctx, time.Now())

	resp, err := d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.NoError(t, err)
	require.Equal(t, 4, resp.Rating.Overall)
	require.Equal(t, testutil.User2.ID, resp.Rating.Rater.ID)
	require.Equal(t, testutil.User3.ID, resp.Rating.RatedUser.ID)

	// One rating per (quest, rater, rated) triple.
	_, err = d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You already rated this user for this quest"), err)

	// The rated user must be an active party member.
	_, err = d.Submit(ctx, validSubmitRatingRequest(testutil.Admin.ID))
	require.Equal(t, errorx.New(errorx.BadRequest, "Rated user is not an active party member"), err)

	// Outsiders cannot rate at all.
	outsiderCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = d.Submit(outsiderCtx, validSubmitRatingRequest(testutil.User3.ID))
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	// A perfect overall score awards an achievement.
	ownerCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	perfect := validSubmitRatingRequest(testutil.User3.ID)
	perfect.Overall = 5
	_, err = d.Submit(ownerCtx, perfect)
	require.NoError(t, err)

	achievementRepo := repository.NewAchievementRepository()
	achievements, err := achievementRepo.GetList(ctx, testutil.User3.ID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	require.Equal(t, entity.AchievementPerfectRating, achievements[0].Type)
}

func Test_ratingDomain_Reputation(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestRatingDomain()

	completeFixtureParty(t, ctx, time.Now())

	_, err := d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.NoError(t, err)

	// A single fresh rating weighs 1, so the weighted average equals the
	// overall score. The volume bonus is 1/100 and there is no completion
	// bonus yet.
	resp, err := d.GetReputation(ctx, &model.GetReputationRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Breakdown.RatingCount)
	require.InDelta(t, 4.0, resp.Breakdown.WeightedAverage, 0.01)
	require.InDelta(t, 0.01, resp.Breakdown.VolumeBonus, 0.001)
	require.InDelta(t, 0.0, resp.Breakdown.CompletionBonus, 0.001)
	require.InDelta(t, 4.01, resp.Breakdown.Score, 0.01)

	// The denormalized score on the user row is kept in sync.
	userRepo := repository.NewUserRepository()
	rated, err := userRepo.GetByID(ctx, testutil.User3.ID)
	require.NoError(t, err)
	require.InDelta(t, 4.01, rated.ReputationScore, 0.01)
	require.Equal(t, 1, rated.RatingCount)
}

func Test_ratingDomain_GetSummary(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestRatingDomain()

	completeFixtureParty(t, ctx, time.Now())

	_, err := d.Submit(ctx, validSubmitRatingRequest(testutil.User3.ID))
	require.NoError(t, err)

	ownerCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	second := validSubmitRatingRequest(testutil.User3.ID)
	second.Overall = 5
	second.WouldCollaborateAgain = false
	_, err = d.Submit(ownerCtx, second)
	require.NoError(t, err)

	resp, err := d.GetSummary(ctx, &model.GetRatingSummaryRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Summary.RatingCount)
	require.InDelta(t, 4.5, resp.Summary.AvgOverall, 0.001)
	require.InDelta(t, 50.0, resp.Summary.PositiveFeedbackPct, 0.001)

	// Updating a rating reshapes the summary.
	ratingRepo := repository.NewRatingRepository()
	rating, err := ratingRepo.Get(ctx, testutil.Quest2.ID, testutil.User2.ID, testutil.User3.ID)
	require.NoError(t, err)

	update := &model.UpdateRatingRequest{
		RatingID:              rating.ID,
		Overall:               5,
		Collaboration:         5,
		Communication:         5,
		Reliability:           5,
		Skill:                 5,
		WouldCollaborateAgain: true,
	}
	_, err = d.Update(ctx, update)
	require.NoError(t, err)

	resp, err = d.GetSummary(ctx, &model.GetRatingSummaryRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.InDelta(t, 5.0, resp.Summary.AvgOverall, 0.001)

	// Only the author may touch a rating.
	_, err = d.Delete(ownerCtx, &model.DeleteRatingRequest{RatingID: rating.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	_, err = d.Delete(ctx, &model.DeleteRatingRequest{RatingID: rating.ID})
	require.NoError(t, err)

	resp, err = d.GetSummary(ctx, &model.GetRatingSummaryRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Summary.RatingCount)
}
