package domain

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/questparty/backend/internal/common"
	"github.com/questparty/backend/internal/domain/search"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/enum"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestDomain interface {
	Create(context.Context, *model.CreateQuestRequest) (*model.CreateQuestResponse, error)
	Get(context.Context, *model.GetQuestRequest) (*model.GetQuestResponse, error)
	GetList(context.Context, *model.GetQuestsRequest) (*model.GetQuestsResponse, error)
	GetMyList(context.Context, *model.GetMyQuestsRequest) (*model.GetMyQuestsResponse, error)
	GetRecommended(context.Context, *model.GetRecommendedQuestsRequest) (*model.GetRecommendedQuestsResponse, error)
	Update(context.Context, *model.UpdateQuestRequest) (*model.UpdateQuestResponse, error)
	Delete(context.Context, *model.DeleteQuestRequest) (*model.DeleteQuestResponse, error)
	Activate(context.Context, *model.ActivateQuestRequest) (*model.ActivateQuestResponse, error)
	Close(context.Context, *model.CloseQuestRequest) (*model.CloseQuestResponse, error)
	Complete(context.Context, *model.CompleteQuestRequest) (*model.CompleteQuestResponse, error)
	Cancel(context.Context, *model.CancelQuestRequest) (*model.CancelQuestResponse, error)
	Archive(context.Context, *model.ArchiveQuestRequest) (*model.ArchiveQuestResponse, error)
	Merge(context.Context, *model.MergeQuestRequest) (*model.MergeQuestResponse, error)
}

type questDomain struct {
	questRepo         repository.QuestRepository
	partyRepo         repository.PartyRepository
	partyMemberRepo   repository.PartyMemberRepository
	applicationRepo   repository.ApplicationRepository
	userRepo          repository.UserRepository
	userTagRepo       repository.UserTagRepository
	questTagRepo      repository.QuestTagRepository
	tagRepo           repository.TagRepository
	notificationRepo  repository.NotificationRepository
	achievementRepo   repository.AchievementRepository
	questMergeRepo    repository.QuestMergeRepository
	searcher          search.Searcher
	partyRoleVerifier *common.PartyRoleVerifier
}

func NewQuestDomain(
	questRepo repository.QuestRepository,
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	applicationRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	userTagRepo repository.UserTagRepository,
	questTagRepo repository.QuestTagRepository,
	tagRepo repository.TagRepository,
	notificationRepo repository.NotificationRepository,
	achievementRepo repository.AchievementRepository,
	questMergeRepo repository.QuestMergeRepository,
	searcher search.Searcher,
) QuestDomain {
	return &questDomain{
		questRepo:         questRepo,
		partyRepo:         partyRepo,
		partyMemberRepo:   partyMemberRepo,
		applicationRepo:   applicationRepo,
		userRepo:          userRepo,
		userTagRepo:       userTagRepo,
		questTagRepo:      questTagRepo,
		tagRepo:           tagRepo,
		notificationRepo:  notificationRepo,
		achievementRepo:   achievementRepo,
		questMergeRepo:    questMergeRepo,
		searcher:          searcher,
		partyRoleVerifier: common.NewPartyRoleVerifier(partyMemberRepo),
	}
}

func checkQuestContent(title, description, objective string) error {
	if len(title) < 5 || len(title) > 200 {
		return errorx.New(errorx.BadRequest, "Title must have from 5 to 200 characters")
	}

	if len(description) < 20 || len(description) > 2000 {
		return errorx.New(errorx.BadRequest, "Description must have from 20 to 2000 characters")
	}

	if len(objective) < 10 || len(objective) > 500 {
		return errorx.New(errorx.BadRequest, "Objective must have from 10 to 500 characters")
	}

	return nil
}

func checkPartySize(min, max int) error {
	if min < 1 || min > 50 || max < 1 || max > 50 {
		return errorx.New(errorx.BadRequest, "Party size must be between 1 and 50")
	}

	if min > max {
		return errorx.New(errorx.BadRequest, "Minimum party size exceeds the maximum")
	}

	return nil
}

func (d *questDomain) Create(
	ctx context.Context, req *model.CreateQuestRequest,
) (*model.CreateQuestResponse, error) {
	if err := checkQuestContent(req.Title, req.Description, req.Objective); err != nil {
		return nil, err
	}

	if err := checkPartySize(req.PartySizeMin, req.PartySizeMax); err != nil {
		return nil, err
	}

	questType, err := enum.ToEnum[entity.QuestType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid quest type %s", req.Type)
	}

	category, err := enum.ToEnum[entity.QuestCategoryType](req.Category)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
	}

	visibility := entity.VisibilityPublic
	if req.Visibility != "" {
		visibility, err = enum.ToEnum[entity.VisibilityType](req.Visibility)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
		}
	}

	commitment := entity.CommitmentCasual
	if req.RequiredCommitment != "" {
		commitment, err = enum.ToEnum[entity.CommitmentType](req.RequiredCommitment)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid commitment %s", req.RequiredCommitment)
		}
	}

	locationType := entity.LocationRemote
	if req.LocationType != "" {
		locationType, err = enum.ToEnum[entity.LocationType](req.LocationType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid location type %s", req.LocationType)
		}
	}

	startsAt, ok := parseTime(ctx, req.StartsAt)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Invalid starts_at")
	}

	deadline, ok := parseTime(ctx, req.Deadline)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Invalid deadline")
	}

	if startsAt.Valid && deadline.Valid && !deadline.Time.After(startsAt.Time) {
		return nil, errorx.New(errorx.BadRequest, "Deadline must be after starts_at")
	}

	partyID := sql.NullString{}
	if req.PartyID != "" {
		if questType != entity.QuestPartyInternal && questType != entity.QuestPartyExpansion {
			return nil, errorx.New(errorx.BadRequest,
				"Party quests must be party_internal or party_expansion")
		}

		party, err := d.partyRepo.GetByID(ctx, req.PartyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found party")
			}

			xcontext.Logger(ctx).Errorf("Cannot get party: %v", err)
			return nil, errorx.Unknown
		}

		if party.Status != entity.PartyActive {
			return nil, errorx.New(errorx.Unavailable, "Party cannot create new quests")
		}

		if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.CreatePartyQuest); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}

		partyID = sql.NullString{Valid: true, String: party.ID}
	} else if questType == entity.QuestPartyInternal || questType == entity.QuestPartyExpansion {
		return nil, errorx.New(errorx.BadRequest, "Quest type %s requires a party", questType)
	}

	status := entity.QuestDraft
	activatedAt := sql.NullTime{}
	if req.Activate {
		status = entity.QuestActive
		activatedAt = nullTime(time.Now())
	}

	quest := &entity.Quest{
		Base:               entity.Base{ID: uuid.NewString()},
		CreatorID:          xcontext.RequestUserID(ctx),
		PartyID:            partyID,
		Type:               questType,
		Status:             status,
		Category:           category,
		Title:              req.Title,
		Description:        []byte(req.Description),
		Objective:          []byte(req.Objective),
		PartySizeMin:       req.PartySizeMin,
		PartySizeMax:       req.PartySizeMax,
		CurrentPartySize:   1,
		RequiredCommitment: commitment,
		LocationType:       locationType,
		LocationDetail:     req.LocationDetail,
		EstimatedDuration:  req.EstimatedDuration,
		AutoApprove:        req.AutoApprove,
		Visibility:         visibility,
		StartsAt:           startsAt,
		Deadline:           deadline,
		ActivatedAt:        activatedAt,
	}

	if err := d.questRepo.Create(ctx, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Status == entity.QuestActive {
		err := d.searcher.IndexQuest(quest.ID, search.QuestData{
			Title:       quest.Title,
			Description: string(quest.Description),
			Objective:   string(quest.Objective),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot index quest: %v", err)
		}
	}

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.CreateQuestResponse{Quest: converted}, nil
}

func (d *questDomain) Get(
	ctx context.Context, req *model.GetQuestRequest,
) (*model.GetQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Visibility == entity.VisibilityPrivate &&
		quest.CreatorID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotFound, "Not found quest")
	}

	if err := d.questRepo.IncreaseViewCount(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot increase view count: %v", err)
	}

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.GetQuestResponse{Quest: converted}, nil
}

func (d *questDomain) GetList(
	ctx context.Context, req *model.GetQuestsRequest,
) (*model.GetQuestsResponse, error) {
	offset, limit := common.Pagination(req.Offset, req.Limit)

	statuses := []entity.QuestStatusType{entity.QuestActive}
	if req.Status != "" {
		status, err := enum.ToEnum[entity.QuestStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		statuses = []entity.QuestStatusType{status}
	}

	filter := repository.QuestFilter{
		Statuses:   statuses,
		Visibility: entity.VisibilityPublic,
		Offset:     offset,
		Limit:      limit,
	}

	if req.Category != "" {
		category, err := enum.ToEnum[entity.QuestCategoryType](req.Category)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
		}

		filter.Category = category
	}

	if req.Q != "" {
		ids, err := d.searcher.SearchQuest(req.Q, offset, limit)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot search quests: %v", err)
			return nil, errorx.Unknown
		}

		if len(ids) == 0 {
			return &model.GetQuestsResponse{Quests: []model.Quest{}}, nil
		}

		filter.IDs = ids
		filter.Offset = 0
	}

	quests, err := d.questRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest list: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertQuests(ctx, quests)
	if err != nil {
		return nil, err
	}

	return &model.GetQuestsResponse{Quests: result}, nil
}

func (d *questDomain) GetMyList(
	ctx context.Context, req *model.GetMyQuestsRequest,
) (*model.GetMyQuestsResponse, error) {
	offset, limit := common.Pagination(req.Offset, req.Limit)

	filter := repository.QuestFilter{
		CreatorID: xcontext.RequestUserID(ctx),
		Offset:    offset,
		Limit:     limit,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.QuestStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		filter.Statuses = []entity.QuestStatusType{status}
	}

	quests, err := d.questRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest list: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertQuests(ctx, quests)
	if err != nil {
		return nil, err
	}

	return &model.GetMyQuestsResponse{Quests: result}, nil
}

func (d *questDomain) GetRecommended(
	ctx context.Context, req *model.GetRecommendedQuestsRequest,
) (*model.GetRecommendedQuestsResponse, error) {
	_, limit := common.Pagination(0, req.Limit)
	userID := xcontext.RequestUserID(ctx)

	userTags, err := d.userTagRepo.GetList(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user tags: %v", err)
		return nil, errorx.Unknown
	}

	quests, err := d.questRepo.GetList(ctx, repository.QuestFilter{
		Statuses:   []entity.QuestStatusType{entity.QuestActive},
		Visibility: entity.VisibilityPublic,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest list: %v", err)
		return nil, errorx.Unknown
	}

	proficiencyByTag := map[string]entity.ProficiencyType{}
	for _, userTag := range userTags {
		proficiencyByTag[userTag.TagID] = userTag.Proficiency
	}

	creatorIDs := []string{}
	for _, quest := range quests {
		creatorIDs = append(creatorIDs, quest.CreatorID)
	}

	creators, err := d.userRepo.GetByIDs(ctx, creatorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creators: %v", err)
		return nil, errorx.Unknown
	}

	reputationByUser := map[string]float64{}
	for _, creator := range creators {
		reputationByUser[creator.ID] = creator.ReputationScore
	}

	now := time.Now()
	scores := map[string]float64{}
	candidates := []entity.Quest{}
	for i := range quests {
		quest := quests[i]
		if quest.CreatorID == userID {
			continue
		}

		questTags, err := d.questTagRepo.GetList(ctx, quest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get quest tags: %v", err)
			return nil, errorx.Unknown
		}

		scores[quest.ID] = recommendationScore(
			&quest, questTags, proficiencyByTag, reputationByUser[quest.CreatorID], now)
		candidates = append(candidates, quest)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result, err := d.convertQuests(ctx, candidates)
	if err != nil {
		return nil, err
	}

	return &model.GetRecommendedQuestsResponse{Quests: result}, nil
}

var proficiencyRank = map[entity.ProficiencyType]int{
	entity.ProficiencyBeginner:     1,
	entity.ProficiencyIntermediate: 2,
	entity.ProficiencyAdvanced:     3,
	entity.ProficiencyExpert:       4,
}

// recommendationScore is a linear weighted sum of heuristic sub-scores, each
// normalized to [0, 1].
func recommendationScore(
	quest *entity.Quest,
	questTags []entity.QuestTag,
	proficiencyByTag map[string]entity.ProficiencyType,
	creatorReputation float64,
	now time.Time,
) float64 {
	tagOverlap := 0.0
	proficiencyFit := 0.0
	if len(questTags) > 0 {
		matched := 0
		fit := 0.0
		for _, questTag := range questTags {
			proficiency, ok := proficiencyByTag[questTag.TagID]
			if !ok {
				continue
			}

			matched++
			if questTag.MinProficiency == "" ||
				proficiencyRank[proficiency] >= proficiencyRank[questTag.MinProficiency] {
				fit++
			}
		}

		tagOverlap = float64(matched) / float64(len(questTags))
		if matched > 0 {
			proficiencyFit = fit / float64(matched)
		}
	}

	recency := 0.0
	ageDays := now.Sub(quest.CreatedAt).Hours() / 24
	if ageDays < 30 {
		recency = 1 - ageDays/30
	}

	return 0.4*tagOverlap + 0.2*proficiencyFit + 0.2*(creatorReputation/5) + 0.2*recency
}

func (d *questDomain) Update(
	ctx context.Context, req *model.UpdateQuestRequest,
) (*model.UpdateQuestResponse, error) {
	quest, err := d.getCreatorQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quest.Title = req.Title
	}

	if req.Description != "" {
		quest.Description = []byte(req.Description)
	}

	if req.Objective != "" {
		quest.Objective = []byte(req.Objective)
	}

	if err := checkQuestContent(quest.Title, string(quest.Description), string(quest.Objective)); err != nil {
		return nil, err
	}

	if req.PartySizeMin != 0 {
		quest.PartySizeMin = req.PartySizeMin
	}

	if req.PartySizeMax != 0 {
		quest.PartySizeMax = req.PartySizeMax
	}

	if err := checkPartySize(quest.PartySizeMin, quest.PartySizeMax); err != nil {
		return nil, err
	}

	if quest.CurrentPartySize > quest.PartySizeMax {
		return nil, errorx.New(errorx.BadRequest,
			"Party size maximum is below the current party size")
	}

	if req.Category != "" {
		category, err := enum.ToEnum[entity.QuestCategoryType](req.Category)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
		}

		quest.Category = category
	}

	if req.RequiredCommitment != "" {
		commitment, err := enum.ToEnum[entity.CommitmentType](req.RequiredCommitment)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid commitment %s", req.RequiredCommitment)
		}

		quest.RequiredCommitment = commitment
	}

	if req.LocationType != "" {
		locationType, err := enum.ToEnum[entity.LocationType](req.LocationType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid location type %s", req.LocationType)
		}

		quest.LocationType = locationType
	}

	if req.LocationDetail != "" {
		quest.LocationDetail = req.LocationDetail
	}

	if req.EstimatedDuration != "" {
		quest.EstimatedDuration = req.EstimatedDuration
	}

	if req.Visibility != "" {
		visibility, err := enum.ToEnum[entity.VisibilityType](req.Visibility)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
		}

		quest.Visibility = visibility
	}

	if req.StartsAt != "" {
		startsAt, ok := parseTime(ctx, req.StartsAt)
		if !ok {
			return nil, errorx.New(errorx.BadRequest, "Invalid starts_at")
		}

		quest.StartsAt = startsAt
	}

	if req.Deadline != "" {
		deadline, ok := parseTime(ctx, req.Deadline)
		if !ok {
			return nil, errorx.New(errorx.BadRequest, "Invalid deadline")
		}

		quest.Deadline = deadline
	}

	if quest.StartsAt.Valid && quest.Deadline.Valid &&
		!quest.Deadline.Time.After(quest.StartsAt.Time) {
		return nil, errorx.New(errorx.BadRequest, "Deadline must be after starts_at")
	}

	if err := d.questRepo.UpdateByID(ctx, quest.ID, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Status == entity.QuestActive {
		err := d.searcher.IndexQuest(quest.ID, search.QuestData{
			Title:       quest.Title,
			Description: string(quest.Description),
			Objective:   string(quest.Objective),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reindex quest: %v", err)
		}
	}

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.UpdateQuestResponse{Quest: converted}, nil
}

func (d *questDomain) Delete(
	ctx context.Context, req *model.DeleteQuestRequest,
) (*model.DeleteQuestResponse, error) {
	quest, err := d.getCreatorQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	if err := d.questRepo.DeleteByID(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.searcher.DeleteQuest(quest.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove quest from index: %v", err)
	}

	return &model.DeleteQuestResponse{}, nil
}

func (d *questDomain) Activate(
	ctx context.Context, req *model.ActivateQuestRequest,
) (*model.ActivateQuestResponse, error) {
	quest, err := d.getCreatorQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	if quest.Status != entity.QuestDraft {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot transition from %s to %s", quest.Status, entity.QuestActive)
	}

	if err := checkQuestContent(quest.Title, string(quest.Description), string(quest.Objective)); err != nil {
		return nil, err
	}

	if err := checkPartySize(quest.PartySizeMin, quest.PartySizeMax); err != nil {
		return nil, err
	}

	activatedAt := nullTime(time.Now())
	err = d.questRepo.UpdateStatus(ctx, quest.ID,
		[]entity.QuestStatusType{entity.QuestDraft},
		&entity.Quest{Status: entity.QuestActive, ActivatedAt: activatedAt})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot activate quest: %v", err)
		return nil, errorx.Unknown
	}

	quest.Status = entity.QuestActive
	quest.ActivatedAt = activatedAt
	err = d.searcher.IndexQuest(quest.ID, search.QuestData{
		Title:       quest.Title,
		Description: string(quest.Description),
		Objective:   string(quest.Objective),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot index quest: %v", err)
	}

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.ActivateQuestResponse{Quest: converted}, nil
}

func (d *questDomain) Close(
	ctx context.Context, req *model.CloseQuestRequest,
) (*model.CloseQuestResponse, error) {
	quest, err := d.getCreatorQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	if quest.Status != entity.QuestActive {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot transition from %s to %s", quest.Status, entity.QuestInProgress)
	}

	if quest.CurrentPartySize < quest.PartySizeMin && !req.Force {
		return nil, errorx.New(errorx.BadRequest,
			"Not enough party members to close (%d of %d)",
			quest.CurrentPartySize, quest.PartySizeMin)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	party, err := closeQuest(
		ctx, d.questRepo, d.partyRepo, d.partyMemberRepo, d.applicationRepo, d.userRepo, quest)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot close quest: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.searcher.DeleteQuest(quest.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove quest from index: %v", err)
	}

	convertedQuest, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	convertedParty, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, party)
	if err != nil {
		return nil, err
	}

	return &model.CloseQuestResponse{Quest: convertedQuest, Party: convertedParty}, nil
}

func (d *questDomain) Complete(
	ctx context.Context, req *model.CompleteQuestRequest,
) (*model.CompleteQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Status != entity.QuestInProgress {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot transition from %s to %s", quest.Status, entity.QuestCompleted)
	}

	party, err := d.partyOfQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	if quest.CreatorID != xcontext.RequestUserID(ctx) {
		if party == nil {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}

		if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.CompleteQuest); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}
	}

	now := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.questRepo.UpdateStatus(ctx, quest.ID,
		[]entity.QuestStatusType{entity.QuestInProgress},
		&entity.Quest{Status: entity.QuestCompleted, CompletedAt: nullTime(now)})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete quest: %v", err)
		return nil, errorx.Unknown
	}

	quest.Status = entity.QuestCompleted
	quest.CompletedAt = nullTime(now)

	if party != nil {
		if party.Status == entity.PartyActive {
			err = d.partyRepo.UpdateStatus(ctx, party.ID, entity.PartyActive,
				&entity.Party{Status: entity.PartyCompleted, CompletedAt: nullTime(now)})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot complete party: %v", err)
				return nil, errorx.Unknown
			}
		}

		members, err := d.partyMemberRepo.GetList(ctx, party.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get party members: %v", err)
			return nil, errorx.Unknown
		}

		for _, member := range members {
			if member.Status != entity.MemberActive {
				continue
			}

			if err := d.bumpCompletion(ctx, member.UserID); err != nil {
				return nil, err
			}

			err = notify(ctx, d.notificationRepo, member.UserID, entity.NotifyPartyCompleted,
				"Party completed",
				"Your party finished its quest. The rating window is now open.",
				partyMetadata{PartyID: party.ID, PartyName: party.Name})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
				return nil, errorx.Unknown
			}
		}
	} else {
		if err := d.bumpCompletion(ctx, quest.CreatorID); err != nil {
			return nil, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.CompleteQuestResponse{Quest: converted}, nil
}

func (d *questDomain) bumpCompletion(ctx context.Context, userID string) error {
	if err := d.userRepo.IncreaseQuestCounters(ctx, userID, 1, 0); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase quest counters: %v", err)
		return errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return errorx.Unknown
	}

	if user.TotalJoinedQuests > 0 {
		rate := float64(user.TotalCompletedQuests) / float64(user.TotalJoinedQuests)
		if rate > 1 {
			rate = 1
		}

		if err := d.userRepo.UpdateCompletionRate(ctx, userID, rate); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update completion rate: %v", err)
			return errorx.Unknown
		}
	}

	err = awardCompletionAchievements(ctx, d.achievementRepo, userID, user.TotalCompletedQuests)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot award achievements: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *questDomain) Cancel(
	ctx context.Context, req *model.CancelQuestRequest,
) (*model.CancelQuestResponse, error) {
	quest, err := d.getCreatorQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	if quest.Status != entity.QuestDraft && quest.Status != entity.QuestActive {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot transition from %s to %s", quest.Status, entity.QuestCancelled)
	}

	err = d.questRepo.UpdateStatus(ctx, quest.ID,
		[]entity.QuestStatusType{entity.QuestDraft, entity.QuestActive},
		&entity.Quest{Status: entity.QuestCancelled})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel quest: %v", err)
		return nil, errorx.Unknown
	}

	quest.Status = entity.QuestCancelled
	if err := d.searcher.DeleteQuest(quest.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove quest from index: %v", err)
	}

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.CancelQuestResponse{Quest: converted}, nil
}

func (d *questDomain) Archive(
	ctx context.Context, req *model.ArchiveQuestRequest,
) (*model.ArchiveQuestResponse, error) {
	quest, err := d.getCreatorQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	if quest.Status != entity.QuestActive && quest.Status != entity.QuestInProgress {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot transition from %s to %s", quest.Status, entity.QuestArchived)
	}

	now := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.questRepo.UpdateStatus(ctx, quest.ID,
		[]entity.QuestStatusType{entity.QuestActive, entity.QuestInProgress},
		&entity.Quest{Status: entity.QuestArchived})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot archive quest: %v", err)
		return nil, errorx.Unknown
	}

	quest.Status = entity.QuestArchived

	party, err := d.partyOfQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	if party != nil && party.Status != entity.PartyArchived {
		err = d.partyRepo.UpdateStatus(ctx, party.ID, party.Status,
			&entity.Party{Status: entity.PartyArchived, ArchivedAt: nullTime(now)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot archive party: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.searcher.DeleteQuest(quest.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove quest from index: %v", err)
	}

	converted, err := d.convertQuest(ctx, quest)
	if err != nil {
		return nil, err
	}

	return &model.ArchiveQuestResponse{Quest: converted}, nil
}

func (d *questDomain) Merge(
	ctx context.Context, req *model.MergeQuestRequest,
) (*model.MergeQuestResponse, error) {
	if req.SourceQuestID == req.TargetQuestID {
		return nil, errorx.New(errorx.BadRequest, "Cannot merge a quest into itself")
	}

	source, err := d.getCreatorQuest(ctx, req.SourceQuestID)
	if err != nil {
		return nil, err
	}

	target, err := d.getCreatorQuest(ctx, req.TargetQuestID)
	if err != nil {
		return nil, err
	}

	if source.Status != entity.QuestDraft && source.Status != entity.QuestActive {
		return nil, errorx.New(errorx.BadRequest, "Source quest cannot be merged")
	}

	if target.Status != entity.QuestActive {
		return nil, errorx.New(errorx.Unavailable, "Target quest is not recruiting")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	moved, err := d.applicationRepo.MovePending(ctx, source.ID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot move applications: %v", err)
		return nil, errorx.Unknown
	}

	err = d.questRepo.UpdateStatus(ctx, source.ID,
		[]entity.QuestStatusType{entity.QuestDraft, entity.QuestActive},
		&entity.Quest{Status: entity.QuestCancelled})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel source quest: %v", err)
		return nil, errorx.Unknown
	}

	err = d.questMergeRepo.Create(ctx, &entity.QuestMerge{
		Base:              entity.Base{ID: uuid.NewString()},
		SourceQuestID:     source.ID,
		TargetQuestID:     target.ID,
		MergedBy:          xcontext.RequestUserID(ctx),
		MovedApplications: int(moved),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record the merge: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.searcher.DeleteQuest(source.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove quest from index: %v", err)
	}

	return &model.MergeQuestResponse{MovedApplications: moved}, nil
}

func (d *questDomain) getCreatorQuest(ctx context.Context, questID string) (*entity.Quest, error) {
	quest, err := d.questRepo.GetByID(ctx, questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.CreatorID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	return quest, nil
}

// partyOfQuest resolves the party a quest belongs to, either its origin
// party or the one formed at closure. A nil party means the quest has no
// party yet.
func (d *questDomain) partyOfQuest(ctx context.Context, quest *entity.Quest) (*entity.Party, error) {
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

func (d *questDomain) convertQuest(ctx context.Context, quest *entity.Quest) (model.Quest, error) {
	creator, err := d.userRepo.GetByID(ctx, quest.CreatorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest creator: %v", err)
		return model.Quest{}, errorx.Unknown
	}

	questTags, err := d.questTagRepo.GetList(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest tags: %v", err)
		return model.Quest{}, errorx.Unknown
	}

	tags := []model.QuestTag{}
	if len(questTags) > 0 {
		tagIDs := []string{}
		for _, questTag := range questTags {
			tagIDs = append(tagIDs, questTag.TagID)
		}

		tagRows, err := d.tagRepo.GetByIDs(ctx, tagIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
			return model.Quest{}, errorx.Unknown
		}

		tagByID := map[string]entity.Tag{}
		for _, tag := range tagRows {
			tagByID[tag.ID] = tag
		}

		for i := range questTags {
			tag, ok := tagByID[questTags[i].TagID]
			if !ok {
				continue
			}

			tags = append(tags, model.ConvertQuestTag(&questTags[i], &tag))
		}
	}

	return model.ConvertQuest(quest, creator, tags), nil
}

func (d *questDomain) convertQuests(ctx context.Context, quests []entity.Quest) ([]model.Quest, error) {
	result := []model.Quest{}
	for i := range quests {
		converted, err := d.convertQuest(ctx, &quests[i])
		if err != nil {
			return nil, err
		}

		result = append(result, converted)
	}

	return result, nil
}
