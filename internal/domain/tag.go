package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/questparty/backend/internal/common"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/enum"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/questparty/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type TagDomain interface {
	Create(context.Context, *model.CreateTagRequest) (*model.CreateTagResponse, error)
	GetList(context.Context, *model.GetTagsRequest) (*model.GetTagsResponse, error)
	GetPopular(context.Context, *model.GetPopularTagsRequest) (*model.GetPopularTagsResponse, error)
	Suggest(context.Context, *model.SuggestTagsRequest) (*model.SuggestTagsResponse, error)
	GetCategories(context.Context, *model.GetTagCategoriesRequest) (*model.GetTagCategoriesResponse, error)
	Update(context.Context, *model.UpdateTagRequest) (*model.UpdateTagResponse, error)
	Delete(context.Context, *model.DeleteTagRequest) (*model.DeleteTagResponse, error)

	AttachUserTag(context.Context, *model.AttachUserTagRequest) (*model.AttachUserTagResponse, error)
	UpdateUserTag(context.Context, *model.UpdateUserTagRequest) (*model.UpdateUserTagResponse, error)
	DetachUserTag(context.Context, *model.DetachUserTagRequest) (*model.DetachUserTagResponse, error)
	GetUserTags(context.Context, *model.GetUserTagsRequest) (*model.GetUserTagsResponse, error)

	AttachQuestTag(context.Context, *model.AttachQuestTagRequest) (*model.AttachQuestTagResponse, error)
	UpdateQuestTag(context.Context, *model.UpdateQuestTagRequest) (*model.UpdateQuestTagResponse, error)
	DetachQuestTag(context.Context, *model.DetachQuestTagRequest) (*model.DetachQuestTagResponse, error)
	GetQuestTags(context.Context, *model.GetQuestTagsRequest) (*model.GetQuestTagsResponse, error)
}

type tagDomain struct {
	tagRepo            repository.TagRepository
	userTagRepo        repository.UserTagRepository
	questTagRepo       repository.QuestTagRepository
	questRepo          repository.QuestRepository
	userRepo           repository.UserRepository
	redisClient        xredis.Client
	globalRoleVerifier *common.GlobalRoleVerifier
}

func NewTagDomain(
	tagRepo repository.TagRepository,
	userTagRepo repository.UserTagRepository,
	questTagRepo repository.QuestTagRepository,
	questRepo repository.QuestRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) TagDomain {
	return &tagDomain{
		tagRepo:            tagRepo,
		userTagRepo:        userTagRepo,
		questTagRepo:       questTagRepo,
		questRepo:          questRepo,
		userRepo:           userRepo,
		redisClient:        redisClient,
		globalRoleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (d *tagDomain) Create(
	ctx context.Context, req *model.CreateTagRequest,
) (*model.CreateTagResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 || len(req.Name) > 50 {
		return nil, errorx.New(errorx.BadRequest, "Name must have from 2 to 50 characters")
	}

	category, err := enum.ToEnum[entity.TagCategoryType](req.Category)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	if slug == "" {
		return nil, errorx.New(errorx.BadRequest, "Cannot derive a slug from the name")
	}

	if _, err := d.tagRepo.GetBySlug(ctx, slug); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Duplicated tag")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get tag by slug: %v", err)
		return nil, errorx.Unknown
	}

	// Tags proposed by regular users await review. Admins create approved
	// tags directly.
	status := entity.TagPendingReview
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err == nil {
		status = entity.TagApproved
	}

	tag := &entity.Tag{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		Slug:        slug,
		Category:    category,
		Status:      status,
		Description: req.Description,
	}

	if err := d.tagRepo.Create(ctx, tag); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tag: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTagResponse{Tag: model.ConvertTag(tag)}, nil
}

func (d *tagDomain) GetList(
	ctx context.Context, req *model.GetTagsRequest,
) (*model.GetTagsResponse, error) {
	offset, limit := common.Pagination(req.Offset, req.Limit)
	filter := repository.TagFilter{Q: req.Q, Offset: offset, Limit: limit}

	if req.Category != "" {
		category, err := enum.ToEnum[entity.TagCategoryType](req.Category)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
		}

		filter.Category = category
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.TagStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		filter.Status = status
	}

	tags, err := d.tagRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetTagsResponse{Tags: convertTags(tags)}, nil
}

func (d *tagDomain) GetPopular(
	ctx context.Context, req *model.GetPopularTagsRequest,
) (*model.GetPopularTagsResponse, error) {
	_, limit := common.Pagination(0, req.Limit)

	members, err := d.redisClient.ZRevRangeWithScores(ctx, common.RedisKeyPopularTags(), 0, limit)
	if err == nil && len(members) > 0 {
		ids := []string{}
		for _, member := range members {
			if id, ok := member.Member.(string); ok {
				ids = append(ids, id)
			}
		}

		tags, err := d.tagRepo.GetByIDs(ctx, ids)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
			return nil, errorx.Unknown
		}

		// Keep the redis ranking order.
		tagByID := map[string]entity.Tag{}
		for _, tag := range tags {
			tagByID[tag.ID] = tag
		}

		ordered := []entity.Tag{}
		for _, id := range ids {
			if tag, ok := tagByID[id]; ok {
				ordered = append(ordered, tag)
			}
		}

		return &model.GetPopularTagsResponse{Tags: convertTags(ordered)}, nil
	}

	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get popular tags from redis: %v", err)
	}

	tags, err := d.tagRepo.GetList(ctx, repository.TagFilter{Limit: limit})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPopularTagsResponse{Tags: convertTags(tags)}, nil
}

func (d *tagDomain) Suggest(
	ctx context.Context, req *model.SuggestTagsRequest,
) (*model.SuggestTagsResponse, error) {
	if req.Prefix == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty prefix")
	}

	_, limit := common.Pagination(0, req.Limit)
	tags, err := d.tagRepo.Suggest(ctx, req.Prefix, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot suggest tags: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SuggestTagsResponse{Tags: convertTags(tags)}, nil
}

func (d *tagDomain) GetCategories(
	ctx context.Context, req *model.GetTagCategoriesRequest,
) (*model.GetTagCategoriesResponse, error) {
	counts, err := d.tagRepo.CountByCategory(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tags by category: %v", err)
		return nil, errorx.Unknown
	}

	countByCategory := map[entity.TagCategoryType]int64{}
	for _, count := range counts {
		countByCategory[count.Category] = count.Count
	}

	// Every known category appears even with a zero count.
	result := []model.CategoryCount{}
	for _, category := range entity.TagCategories {
		result = append(result, model.CategoryCount{
			Category: string(category),
			Count:    countByCategory[category],
		})
	}

	return &model.GetTagCategoriesResponse{Categories: result}, nil
}

func (d *tagDomain) Update(
	ctx context.Context, req *model.UpdateTagRequest,
) (*model.UpdateTagResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	tag, err := d.tagRepo.GetByID(ctx, req.TagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tag: %v", err)
		return nil, errorx.Unknown
	}

	if req.Name != "" {
		tag.Name = req.Name
	}

	if req.Description != "" {
		tag.Description = req.Description
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.TagStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		tag.Status = status
	}

	if err := d.tagRepo.UpdateByID(ctx, tag.ID, tag); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update tag: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateTagResponse{Tag: model.ConvertTag(tag)}, nil
}

func (d *tagDomain) Delete(
	ctx context.Context, req *model.DeleteTagRequest,
) (*model.DeleteTagResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	if err := d.tagRepo.DeleteByID(ctx, req.TagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete tag: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteTagResponse{}, nil
}

func (d *tagDomain) AttachUserTag(
	ctx context.Context, req *model.AttachUserTagRequest,
) (*model.AttachUserTagResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	tag, err := d.getUsableTag(ctx, req.TagID)
	if err != nil {
		return nil, err
	}

	proficiency, err := enum.ToEnum[entity.ProficiencyType](req.Proficiency)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid proficiency %s", req.Proficiency)
	}

	if _, err := d.userTagRepo.Get(ctx, userID, tag.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Tag is already attached")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user tag: %v", err)
		return nil, errorx.Unknown
	}

	userTag := &entity.UserTag{
		UserID:      userID,
		TagID:       tag.ID,
		Proficiency: proficiency,
		IsPrimary:   req.IsPrimary,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userTagRepo.Create(ctx, userTag); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user tag: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tagRepo.IncreaseUsageCount(ctx, tag.ID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase usage count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpPopularity(ctx, tag.ID, 1)

	return &model.AttachUserTagResponse{
		UserTag: model.ConvertUserTag(userTag, tag),
	}, nil
}

func (d *tagDomain) UpdateUserTag(
	ctx context.Context, req *model.UpdateUserTagRequest,
) (*model.UpdateUserTagResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	proficiency, err := enum.ToEnum[entity.ProficiencyType](req.Proficiency)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid proficiency %s", req.Proficiency)
	}

	err = d.userTagRepo.Update(ctx, userID, req.TagID, &entity.UserTag{
		Proficiency: proficiency,
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot update user tag: %v", err)
		return nil, errorx.Unknown
	}

	userTag, err := d.userTagRepo.Get(ctx, userID, req.TagID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user tag: %v", err)
		return nil, errorx.Unknown
	}

	tag, err := d.tagRepo.GetByID(ctx, req.TagID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tag: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserTagResponse{
		UserTag: model.ConvertUserTag(userTag, tag),
	}, nil
}

func (d *tagDomain) DetachUserTag(
	ctx context.Context, req *model.DetachUserTagRequest,
) (*model.DetachUserTagResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userTagRepo.Delete(ctx, userID, req.TagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete user tag: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tagRepo.IncreaseUsageCount(ctx, req.TagID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease usage count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpPopularity(ctx, req.TagID, -1)

	return &model.DetachUserTagResponse{}, nil
}

func (d *tagDomain) GetUserTags(
	ctx context.Context, req *model.GetUserTagsRequest,
) (*model.GetUserTagsResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	userTags, err := d.userTagRepo.GetList(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user tags: %v", err)
		return nil, errorx.Unknown
	}

	tagByID, err := d.tagsOf(ctx, func() []string {
		ids := []string{}
		for _, userTag := range userTags {
			ids = append(ids, userTag.TagID)
		}
		return ids
	}())
	if err != nil {
		return nil, err
	}

	result := []model.UserTag{}
	for i := range userTags {
		tag, ok := tagByID[userTags[i].TagID]
		if !ok {
			continue
		}

		result = append(result, model.ConvertUserTag(&userTags[i], &tag))
	}

	return &model.GetUserTagsResponse{UserTags: result}, nil
}

func (d *tagDomain) AttachQuestTag(
	ctx context.Context, req *model.AttachQuestTagRequest,
) (*model.AttachQuestTagResponse, error) {
	quest, err := d.getOwnQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	tag, err := d.getUsableTag(ctx, req.TagID)
	if err != nil {
		return nil, err
	}

	minProficiency := entity.ProficiencyType("")
	if req.MinProficiency != "" {
		minProficiency, err = enum.ToEnum[entity.ProficiencyType](req.MinProficiency)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid proficiency %s", req.MinProficiency)
		}
	}

	if _, err := d.questTagRepo.Get(ctx, quest.ID, tag.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Tag is already attached")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get quest tag: %v", err)
		return nil, errorx.Unknown
	}

	questTag := &entity.QuestTag{
		QuestID:        quest.ID,
		TagID:          tag.ID,
		IsRequired:     req.IsRequired,
		MinProficiency: minProficiency,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.questTagRepo.Create(ctx, questTag); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest tag: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tagRepo.IncreaseUsageCount(ctx, tag.ID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase usage count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpPopularity(ctx, tag.ID, 1)

	return &model.AttachQuestTagResponse{
		QuestTag: model.ConvertQuestTag(questTag, tag),
	}, nil
}

func (d *tagDomain) UpdateQuestTag(
	ctx context.Context, req *model.UpdateQuestTagRequest,
) (*model.UpdateQuestTagResponse, error) {
	quest, err := d.getOwnQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	minProficiency := entity.ProficiencyType("")
	if req.MinProficiency != "" {
		minProficiency, err = enum.ToEnum[entity.ProficiencyType](req.MinProficiency)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid proficiency %s", req.MinProficiency)
		}
	}

	err = d.questTagRepo.Update(ctx, quest.ID, req.TagID, &entity.QuestTag{
		IsRequired:     req.IsRequired,
		MinProficiency: minProficiency,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot update quest tag: %v", err)
		return nil, errorx.Unknown
	}

	questTag, err := d.questTagRepo.Get(ctx, quest.ID, req.TagID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest tag: %v", err)
		return nil, errorx.Unknown
	}

	tag, err := d.tagRepo.GetByID(ctx, req.TagID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tag: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateQuestTagResponse{
		QuestTag: model.ConvertQuestTag(questTag, tag),
	}, nil
}

func (d *tagDomain) DetachQuestTag(
	ctx context.Context, req *model.DetachQuestTagRequest,
) (*model.DetachQuestTagResponse, error) {
	quest, err := d.getOwnQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.questTagRepo.Delete(ctx, quest.ID, req.TagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete quest tag: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tagRepo.IncreaseUsageCount(ctx, req.TagID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease usage count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpPopularity(ctx, req.TagID, -1)

	return &model.DetachQuestTagResponse{}, nil
}

func (d *tagDomain) GetQuestTags(
	ctx context.Context, req *model.GetQuestTagsRequest,
) (*model.GetQuestTagsResponse, error) {
	questTags, err := d.questTagRepo.GetList(ctx, req.QuestID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest tags: %v", err)
		return nil, errorx.Unknown
	}

	tagByID, err := d.tagsOf(ctx, func() []string {
		ids := []string{}
		for _, questTag := range questTags {
			ids = append(ids, questTag.TagID)
		}
		return ids
	}())
	if err != nil {
		return nil, err
	}

	result := []model.QuestTag{}
	for i := range questTags {
		tag, ok := tagByID[questTags[i].TagID]
		if !ok {
			continue
		}

		result = append(result, model.ConvertQuestTag(&questTags[i], &tag))
	}

	return &model.GetQuestTagsResponse{QuestTags: result}, nil
}

// getUsableTag returns the tag if it can be attached, i.e. it is not
// rejected or pending review.
func (d *tagDomain) getUsableTag(ctx context.Context, tagID string) (*entity.Tag, error) {
	tag, err := d.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tag: %v", err)
		return nil, errorx.Unknown
	}

	if tag.Status != entity.TagSystem && tag.Status != entity.TagApproved {
		return nil, errorx.New(errorx.Unavailable, "Tag is not approved yet")
	}

	return tag, nil
}

func (d *tagDomain) getOwnQuest(ctx context.Context, questID string) (*entity.Quest, error) {
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

func (d *tagDomain) tagsOf(ctx context.Context, ids []string) (map[string]entity.Tag, error) {
	tagByID := map[string]entity.Tag{}
	if len(ids) == 0 {
		return tagByID, nil
	}

	tags, err := d.tagRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
		return nil, errorx.Unknown
	}

	for _, tag := range tags {
		tagByID[tag.ID] = tag
	}

	return tagByID, nil
}

// bumpPopularity keeps the redis popularity ranking roughly in sync. The
// database usage count is authoritative, so a failed bump is only logged.
func (d *tagDomain) bumpPopularity(ctx context.Context, tagID string, delta int64) {
	if delta > 0 {
		exist, err := d.redisClient.Exist(ctx, common.RedisKeyPopularTags())
		if err == nil && !exist {
			if err := d.redisClient.ZAdd(ctx, common.RedisKeyPopularTags(),
				redis.Z{Score: 0, Member: tagID}); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot initialize popular tags: %v", err)
				return
			}
		}
	}

	err := d.redisClient.ZIncrBy(ctx, common.RedisKeyPopularTags(), delta, tagID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot bump tag popularity: %v", err)
	}
}

func convertTags(tags []entity.Tag) []model.Tag {
	result := []model.Tag{}
	for i := range tags {
		result = append(result, model.ConvertTag(&tags[i]))
	}

	return result
}
