package domain

import (
	"testing"

	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestTagDomain() TagDomain {
	return NewTagDomain(
		repository.NewTagRepository(),
		repository.NewUserTagRepository(),
		repository.NewQuestTagRepository(),
		repository.NewQuestRepository(),
		repository.NewUserRepository(),
		&testutil.MockRedisClient{},
	)
}

func Test_tagDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestTagDomain()

	// Tags from regular users await review.
	resp, err := d.Create(ctx, &model.CreateTagRequest{
		Name:     "Rock Climbing",
		Category: "SPORT",
	})
	require.NoError(t, err)
	require.Equal(t, "PENDING", resp.Tag.Status)
	require.Equal(t, "rock-climbing", resp.Tag.Slug)

	// Admins create approved tags directly.
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	resp, err = d.Create(adminCtx, &model.CreateTagRequest{
		Name:     "Trail Running",
		Category: "SPORT",
	})
	require.NoError(t, err)
	require.Equal(t, "APPROVED", resp.Tag.Status)

	_, err = d.Create(ctx, &model.CreateTagRequest{
		Name:     "Go",
		Category: "PROGRAMMING",
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Duplicated tag"), err)

	_, err = d.Create(ctx, &model.CreateTagRequest{
		Name:     "Curling",
		Category: "WINTERSPORT",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid category WINTERSPORT"), err)
}

func Test_tagDomain_UserTags(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestTagDomain()

	// Pending tags cannot be attached.
	_, err := d.AttachUserTag(ctx, &model.AttachUserTagRequest{
		TagID:       testutil.Tag2.ID,
		Proficiency: "BEGINNER",
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Tag is not approved yet"), err)

	_, err = d.AttachUserTag(ctx, &model.AttachUserTagRequest{
		TagID:       testutil.Tag1.ID,
		Proficiency: "GRANDMASTER",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid proficiency GRANDMASTER"), err)

	attachResp, err := d.AttachUserTag(ctx, &model.AttachUserTagRequest{
		TagID:       testutil.Tag1.ID,
		Proficiency: "ADVANCED",
		IsPrimary:   true,
	})
	require.NoError(t, err)
	require.Equal(t, "ADVANCED", attachResp.UserTag.Proficiency)
	require.True(t, attachResp.UserTag.IsPrimary)

	_, err = d.AttachUserTag(ctx, &model.AttachUserTagRequest{
		TagID:       testutil.Tag1.ID,
		Proficiency: "BEGINNER",
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Tag is already attached"), err)

	// Attaching bumps the usage counter, detaching releases it.
	tagRepo := repository.NewTagRepository()
	tag, err := tagRepo.GetByID(ctx, testutil.Tag1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, tag.UsageCount)

	getResp, err := d.GetUserTags(ctx, &model.GetUserTagsRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.Len(t, getResp.UserTags, 1)
	require.Equal(t, testutil.Tag1.ID, getResp.UserTags[0].Tag.ID)

	_, err = d.DetachUserTag(ctx, &model.DetachUserTagRequest{TagID: testutil.Tag1.ID})
	require.NoError(t, err)

	tag, err = tagRepo.GetByID(ctx, testutil.Tag1.ID)
	require.NoError(t, err)
	require.Equal(t, 0, tag.UsageCount)

	_, err = d.DetachUserTag(ctx, &model.DetachUserTagRequest{TagID: testutil.Tag1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user tag"), err)
}

func Test_tagDomain_QuestTags(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestTagDomain()

	// Only the quest creator manages its tags.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err := d.AttachQuestTag(otherCtx, &model.AttachQuestTagRequest{
		QuestID: testutil.Quest1.ID,
		TagID:   testutil.Tag1.ID,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	attachResp, err := d.AttachQuestTag(ctx, &model.AttachQuestTagRequest{
		QuestID:        testutil.Quest1.ID,
		TagID:          testutil.Tag1.ID,
		IsRequired:     true,
		MinProficiency: "INTERMEDIATE",
	})
	require.NoError(t, err)
	require.True(t, attachResp.QuestTag.IsRequired)
	require.Equal(t, "INTERMEDIATE", attachResp.QuestTag.MinProficiency)

	getResp, err := d.GetQuestTags(ctx, &model.GetQuestTagsRequest{QuestID: testutil.Quest1.ID})
	require.NoError(t, err)
	require.Len(t, getResp.QuestTags, 1)

	_, err = d.DetachQuestTag(ctx, &model.DetachQuestTagRequest{
		QuestID: testutil.Quest1.ID,
		TagID:   testutil.Tag1.ID,
	})
	require.NoError(t, err)
}

func Test_tagDomain_AdminOnly(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestTagDomain()

	_, err := d.Update(ctx, &model.UpdateTagRequest{
		TagID:  testutil.Tag2.ID,
		Status: "APPROVED",
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	updateResp, err := d.Update(adminCtx, &model.UpdateTagRequest{
		TagID:  testutil.Tag2.ID,
		Status: "APPROVED",
	})
	require.NoError(t, err)
	require.Equal(t, "APPROVED", updateResp.Tag.Status)

	// The approved tag is attachable now.
	_, err = d.AttachUserTag(ctx, &model.AttachUserTagRequest{
		TagID:       testutil.Tag2.ID,
		Proficiency: "BEGINNER",
	})
	require.NoError(t, err)

	_, err = d.Delete(ctx, &model.DeleteTagRequest{TagID: testutil.Tag2.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	_, err = d.Delete(adminCtx, &model.DeleteTagRequest{TagID: testutil.Tag2.ID})
	require.NoError(t, err)
}

func Test_tagDomain_GetCategories(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestTagDomain()

	resp, err := d.GetCategories(ctx, &model.GetTagCategoriesRequest{})
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, category := range resp.Categories {
		counts[category.Category] = category.Count
	}

	require.Equal(t, int64(1), counts["PROGRAMMING"])
	require.Equal(t, int64(1), counts["HOBBY"])

	// Categories without tags still show up.
	require.Contains(t, counts, "GAME")
	require.Equal(t, int64(0), counts["GAME"])
}
