package domain

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/questparty/backend/internal/common"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/questparty/backend/pkg/xredis"
	"gorm.io/gorm"
)

type RatingDomain interface {
	Submit(context.Context, *model.SubmitRatingRequest) (*model.SubmitRatingResponse, error)
	Update(context.Context, *model.UpdateRatingRequest) (*model.UpdateRatingResponse, error)
	Delete(context.Context, *model.DeleteRatingRequest) (*model.DeleteRatingResponse, error)
	GetQuestRatings(context.Context, *model.GetQuestRatingsRequest) (*model.GetQuestRatingsResponse, error)
	GetSummary(context.Context, *model.GetRatingSummaryRequest) (*model.GetRatingSummaryResponse, error)
	GetReputation(context.Context, *model.GetReputationRequest) (*model.GetReputationResponse, error)
}

type ratingDomain struct {
	ratingRepo        repository.RatingRepository
	questRepo         repository.QuestRepository
	partyRepo         repository.PartyRepository
	partyMemberRepo   repository.PartyMemberRepository
	userRepo          repository.UserRepository
	achievementRepo   repository.AchievementRepository
	redisClient       xredis.Client
	partyRoleVerifier *common.PartyRoleVerifier
}

func NewRatingDomain(
	ratingRepo repository.RatingRepository,
	questRepo repository.QuestRepository,
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	userRepo repository.UserRepository,
	achievementRepo repository.AchievementRepository,
	redisClient xredis.Client,
) RatingDomain {
	return &ratingDomain{
		ratingRepo:        ratingRepo,
		questRepo:         questRepo,
		partyRepo:         partyRepo,
		partyMemberRepo:   partyMemberRepo,
		userRepo:          userRepo,
		achievementRepo:   achievementRepo,
		redisClient:       redisClient,
		partyRoleVerifier: common.NewPartyRoleVerifier(partyMemberRepo),
	}
}

func checkScores(scores ...int) error {
	for _, score := range scores {
		if score < 1 || score > 5 {
			return errorx.New(errorx.BadRequest, "Scores must be between 1 and 5")
		}
	}

	return nil
}

func (d *ratingDomain) Submit(
	ctx context.Context, req *model.SubmitRatingRequest,
) (*model.SubmitRatingResponse, error) {
	raterID := xcontext.RequestUserID(ctx)
	if raterID == req.RatedUserID {
		return nil, errorx.New(errorx.BadRequest, "Cannot rate yourself")
	}

	err := checkScores(req.Overall, req.Collaboration, req.Communication, req.Reliability, req.Skill)
	if err != nil {
		return nil, err
	}

	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	party, err := d.partyOfQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	if err := checkRatingWindow(ctx, party); err != nil {
		return nil, err
	}

	if _, err := d.partyRoleVerifier.Member(ctx, party.ID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	rated, err := d.partyMemberRepo.Get(ctx, party.ID, req.RatedUserID)
	if err != nil || rated.Status != entity.MemberActive {
		return nil, errorx.New(errorx.BadRequest, "Rated user is not an active party member")
	}

	if _, err := d.ratingRepo.Get(ctx, quest.ID, raterID, req.RatedUserID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You already rated this user for this quest")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get rating: %v", err)
		return nil, errorx.Unknown
	}

	rating := &entity.Rating{
		Base:                  entity.Base{ID: uuid.NewString()},
		QuestID:               quest.ID,
		RaterID:               raterID,
		RatedUserID:           req.RatedUserID,
		Overall:               req.Overall,
		Collaboration:         req.Collaboration,
		Communication:         req.Communication,
		Reliability:           req.Reliability,
		Skill:                 req.Skill,
		Review:                []byte(req.Review),
		WouldCollaborateAgain: req.WouldCollaborateAgain,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ratingRepo.Create(ctx, rating); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.recomputeReputation(ctx, req.RatedUserID); err != nil {
		return nil, err
	}

	if rating.Overall == 5 {
		_, err := d.achievementRepo.Upsert(ctx, &entity.Achievement{
			Base:      entity.Base{ID: uuid.NewString()},
			UserID:    req.RatedUserID,
			Type:      entity.AchievementPerfectRating,
			AwardedAt: time.Now(),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot award achievement: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.SubmitRatingResponse{Rating: d.convertRating(ctx, rating)}, nil
}

func (d *ratingDomain) Update(
	ctx context.Context, req *model.UpdateRatingRequest,
) (*model.UpdateRatingResponse, error) {
	rating, err := d.getOwnRating(ctx, req.RatingID)
	if err != nil {
		return nil, err
	}

	if err := d.checkQuestRatingWindow(ctx, rating.QuestID); err != nil {
		return nil, err
	}

	err = checkScores(req.Overall, req.Collaboration, req.Communication, req.Reliability, req.Skill)
	if err != nil {
		return nil, err
	}

	rating.Overall = req.Overall
	rating.Collaboration = req.Collaboration
	rating.Communication = req.Communication
	rating.Reliability = req.Reliability
	rating.Skill = req.Skill
	rating.Review = []byte(req.Review)
	rating.WouldCollaborateAgain = req.WouldCollaborateAgain

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ratingRepo.UpdateByID(ctx, rating.ID, rating); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.recomputeReputation(ctx, rating.RatedUserID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpdateRatingResponse{Rating: d.convertRating(ctx, rating)}, nil
}

func (d *ratingDomain) Delete(
	ctx context.Context, req *model.DeleteRatingRequest,
) (*model.DeleteRatingResponse, error) {
	rating, err := d.getOwnRating(ctx, req.RatingID)
	if err != nil {
		return nil, err
	}

	if err := d.checkQuestRatingWindow(ctx, rating.QuestID); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ratingRepo.DeleteByID(ctx, rating.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.recomputeReputation(ctx, rating.RatedUserID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.DeleteRatingResponse{}, nil
}

func (d *ratingDomain) GetQuestRatings(
	ctx context.Context, req *model.GetQuestRatingsRequest,
) (*model.GetQuestRatingsResponse, error) {
	ratings, err := d.ratingRepo.GetListByQuest(ctx, req.QuestID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ratings: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Rating{}
	for i := range ratings {
		result = append(result, d.convertRating(ctx, &ratings[i]))
	}

	return &model.GetQuestRatingsResponse{Ratings: result}, nil
}

func (d *ratingDomain) GetSummary(
	ctx context.Context, req *model.GetRatingSummaryRequest,
) (*model.GetRatingSummaryResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	ratings, err := d.ratingRepo.GetReceived(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ratings: %v", err)
		return nil, errorx.Unknown
	}

	summary := model.RatingSummary{RatingCount: len(ratings)}
	if len(ratings) == 0 {
		return &model.GetRatingSummaryResponse{Summary: summary}, nil
	}

	positive := 0
	for _, rating := range ratings {
		summary.AvgOverall += float64(rating.Overall)
		summary.AvgCollaboration += float64(rating.Collaboration)
		summary.AvgCommunication += float64(rating.Communication)
		summary.AvgReliability += float64(rating.Reliability)
		summary.AvgSkill += float64(rating.Skill)
		if rating.WouldCollaborateAgain {
			positive++
		}
	}

	count := float64(len(ratings))
	summary.AvgOverall /= count
	summary.AvgCollaboration /= count
	summary.AvgCommunication /= count
	summary.AvgReliability /= count
	summary.AvgSkill /= count
	summary.PositiveFeedbackPct = 100 * float64(positive) / count

	return &model.GetRatingSummaryResponse{Summary: summary}, nil
}

func (d *ratingDomain) GetReputation(
	ctx context.Context, req *model.GetReputationRequest,
) (*model.GetReputationResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ratings, err := d.ratingRepo.GetReceived(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ratings: %v", err)
		return nil, errorx.Unknown
	}

	breakdown := reputationBreakdown(ratings, user.QuestCompletionRate, time.Now())
	return &model.GetReputationResponse{Breakdown: breakdown}, nil
}

// reputationBreakdown computes a recency-weighted reputation. Ratings decay
// with a 90-day half-life style weight 1/(1+age/90), the completion rate
// adds up to 0.1 and rating volume up to 0.2, capped at a 5.0 total.
func reputationBreakdown(
	ratings []entity.Rating, completionRate float64, now time.Time,
) model.ReputationBreakdown {
	breakdown := model.ReputationBreakdown{RatingCount: len(ratings)}
	if len(ratings) == 0 {
		return breakdown
	}

	var weightedSum, weightTotal float64
	for _, rating := range ratings {
		ageDays := now.Sub(rating.CreatedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}

		weight := 1 / (1 + ageDays/90)
		weightedSum += weight * float64(rating.Overall)
		weightTotal += weight
	}

	breakdown.WeightedAverage = weightedSum / weightTotal
	breakdown.CompletionBonus = completionRate * 0.1
	breakdown.VolumeBonus = math.Min(float64(len(ratings))/100, 0.2)
	breakdown.Score = math.Min(5.0,
		breakdown.WeightedAverage+breakdown.CompletionBonus+breakdown.VolumeBonus)

	return breakdown
}

func (d *ratingDomain) recomputeReputation(ctx context.Context, userID string) error {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return errorx.Unknown
	}

	ratings, err := d.ratingRepo.GetReceived(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ratings: %v", err)
		return errorx.Unknown
	}

	breakdown := reputationBreakdown(ratings, user.QuestCompletionRate, time.Now())
	err = d.userRepo.UpdateReputation(ctx, userID, breakdown.Score, breakdown.RatingCount)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update reputation: %v", err)
		return errorx.Unknown
	}

	err = d.redisClient.SetObj(ctx, common.RedisKeyReputation(userID), breakdown, time.Hour)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache reputation: %v", err)
	}

	return nil
}

// checkRatingWindow gates rating writes on the party status. Only a
// COMPLETED party within the configured window accepts them; archiving the
// party closes the window early.
func checkRatingWindow(ctx context.Context, party *entity.Party) error {
	if party == nil || party.Status == entity.PartyActive || !party.CompletedAt.Valid {
		return errorx.New(errorx.Unavailable, "The rating window has not opened yet")
	}

	if party.Status != entity.PartyCompleted {
		return errorx.New(errorx.Unavailable, "The rating window has closed")
	}

	window := xcontext.Configs(ctx).Rating.Window
	if time.Now().After(party.CompletedAt.Time.Add(window)) {
		return errorx.New(errorx.Unavailable, "The rating window has closed")
	}

	return nil
}

func (d *ratingDomain) checkQuestRatingWindow(ctx context.Context, questID string) error {
	quest, err := d.questRepo.GetByID(ctx, questID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return errorx.Unknown
	}

	party, err := d.partyOfQuest(ctx, quest)
	if err != nil {
		return err
	}

	return checkRatingWindow(ctx, party)
}

func (d *ratingDomain) getOwnRating(ctx context.Context, ratingID string) (*entity.Rating, error) {
	rating, err := d.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found rating")
		}

		xcontext.Logger(ctx).Errorf("Cannot get rating: %v", err)
		return nil, errorx.Unknown
	}

	if rating.RaterID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	return rating, nil
}

func (d *ratingDomain) partyOfQuest(ctx context.Context, quest *entity.Quest) (*entity.Party, error) {
	if quest.PartyID.Valid {
		party, err := d.partyRepo.GetByID(ctx, quest.PartyID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get party: %v", err)
			return nil, errorx.Unknown
		}

		return party, nil
	}

	party, err := d.partyRepo.GetByQuestID(ctx, quest.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get party: %v", err)
		return nil, errorx.Unknown
	}

	return party, nil
}

func (d *ratingDomain) convertRating(ctx context.Context, rating *entity.Rating) model.Rating {
	rater, err := d.userRepo.GetByID(ctx, rating.RaterID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get rater: %v", err)
	}

	ratedUser, err := d.userRepo.GetByID(ctx, rating.RatedUserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get rated user: %v", err)
	}

	return model.ConvertRating(rating, rater, ratedUser)
}
