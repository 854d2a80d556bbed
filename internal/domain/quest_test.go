package domain

import (
	"context"
	"testing"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestQuestDomain() QuestDomain {
	return NewQuestDomain(
		repository.NewQuestRepository(),
		repository.NewPartyRepository(),
		repository.NewPartyMemberRepository(),
		repository.NewApplicationRepository(),
		repository.NewUserRepository(),
		repository.NewUserTagRepository(),
		repository.NewQuestTagRepository(),
		repository.NewTagRepository(),
		repository.NewNotificationRepository(),
		repository.NewAchievementRepository(),
		repository.NewQuestMergeRepository(),
		&testutil.MockSearcher{},
	)
}

func validCreateQuestRequest() *model.CreateQuestRequest {
	return &model.CreateQuestRequest{
		Title:        "Climb every peak in the county",
		Description:  "Looking for hiking partners to climb all twelve local peaks.",
		Objective:    "Summit all twelve peaks before winter.",
		Type:         "individual",
		Category:     "fitness",
		PartySizeMin: 2,
		PartySizeMax: 4,
	}
}

func Test_questDomain_Create_Failed(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.CreateQuestRequest
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name: "too short title",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreateQuestRequest{
					Title:        "hi",
					Description:  "Looking for hiking partners to climb all twelve local peaks.",
					Objective:    "Summit all twelve peaks.",
					Type:         "individual",
					Category:     "fitness",
					PartySizeMin: 2,
					PartySizeMax: 4,
				},
			},
			wantErr: errorx.New(errorx.BadRequest, "Title must have from 5 to 200 characters"),
		},
		{
			name: "invalid type",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreateQuestRequest{
					Title:        "Climb every peak in the county",
					Description:  "Looking for hiking partners to climb all twelve local peaks.",
					Objective:    "Summit all twelve peaks.",
					Type:         "raid",
					Category:     "fitness",
					PartySizeMin: 2,
					PartySizeMax: 4,
				},
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid quest type raid"),
		},
		{
			name: "party size out of range",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreateQuestRequest{
					Title:        "Climb every peak in the county",
					Description:  "Looking for hiking partners to climb all twelve local peaks.",
					Objective:    "Summit all twelve peaks.",
					Type:         "individual",
					Category:     "fitness",
					PartySizeMin: 1,
					PartySizeMax: 51,
				},
			},
			wantErr: errorx.New(errorx.BadRequest, "Party size must be between 1 and 50"),
		},
		{
			name: "min above max",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreateQuestRequest{
					Title:        "Climb every peak in the county",
					Description:  "Looking for hiking partners to climb all twelve local peaks.",
					Objective:    "Summit all twelve peaks.",
					Type:         "individual",
					Category:     "fitness",
					PartySizeMin: 5,
					PartySizeMax: 3,
				},
			},
			wantErr: errorx.New(errorx.BadRequest, "Minimum party size exceeds the maximum"),
		},
		{
			name: "party type without party",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreateQuestRequest{
					Title:        "Climb every peak in the county",
					Description:  "Looking for hiking partners to climb all twelve local peaks.",
					Objective:    "Summit all twelve peaks.",
					Type:         "party_internal",
					Category:     "fitness",
					PartySizeMin: 2,
					PartySizeMax: 4,
				},
			},
			wantErr: errorx.New(errorx.BadRequest, "Quest type party_internal requires a party"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestQuestDomain()
			_, err := d.Create(tt.args.ctx, tt.args.req)
			require.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_questDomain_CreateAndActivate(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestQuestDomain()

	createResp, err := d.Create(ctx, validCreateQuestRequest())
	require.NoError(t, err)
	require.Equal(t, "draft", createResp.Quest.Status)
	require.Equal(t, 1, createResp.Quest.CurrentPartySize)
	require.Equal(t, "public", createResp.Quest.Visibility)
	require.Equal(t, "casual", createResp.Quest.RequiredCommitment)
	require.Equal(t, "remote", createResp.Quest.LocationType)

	activateResp, err := d.Activate(ctx, &model.ActivateQuestRequest{
		QuestID: createResp.Quest.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "active", activateResp.Quest.Status)
	require.NotEmpty(t, activateResp.Quest.ActivatedAt)

	// Activating twice is rejected.
	_, err = d.Activate(ctx, &model.ActivateQuestRequest{QuestID: createResp.Quest.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Cannot transition from active to active"), err)
}

func Test_questDomain_Get_PrivateVisibility(t *testing.T) {
	creatorCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(creatorCtx)
	d := newTestQuestDomain()

	req := validCreateQuestRequest()
	req.Visibility = "private"
	req.Activate = true
	createResp, err := d.Create(creatorCtx, req)
	require.NoError(t, err)

	// The creator still sees their own private quest.
	_, err = d.Get(creatorCtx, &model.GetQuestRequest{QuestID: createResp.Quest.ID})
	require.NoError(t, err)

	// Everybody else gets a not found, not a permission error.
	otherCtx := xcontext.WithRequestUserID(creatorCtx, testutil.User2.ID)
	_, err = d.Get(otherCtx, &model.GetQuestRequest{QuestID: createResp.Quest.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found quest"), err)
}

func Test_questDomain_Close(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestQuestDomain()

	// Quest1 has a single member but requires two, so a plain close fails.
	_, err := d.Close(ctx, &model.CloseQuestRequest{QuestID: testutil.Quest1.ID})
	require.Equal(t, errorx.New(errorx.BadRequest,
		"Not enough party members to close (1 of 2)"), err)

	closeResp, err := d.Close(ctx, &model.CloseQuestRequest{
		QuestID: testutil.Quest1.ID,
		Force:   true,
	})
	require.NoError(t, err)
	require.Equal(t, "in_progress", closeResp.Quest.Status)
	require.Equal(t, "ACTIVE", closeResp.Party.Status)
	require.Len(t, closeResp.Party.Members, 1)
	require.Equal(t, "OWNER", closeResp.Party.Members[0].Role)
}

func Test_questDomain_Cancel(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestQuestDomain()

	cancelResp, err := d.Cancel(ctx, &model.CancelQuestRequest{QuestID: testutil.Quest1.ID})
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelResp.Quest.Status)

	// An in-progress quest cannot be cancelled anymore.
	_, err = d.Cancel(ctx, &model.CancelQuestRequest{QuestID: testutil.Quest2.ID})
	require.Equal(t, errorx.New(errorx.BadRequest,
		"Cannot transition from in_progress to cancelled"), err)
}

func Test_questDomain_Merge(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestQuestDomain()

	req := validCreateQuestRequest()
	req.Activate = true
	targetResp, err := d.Create(ctx, req)
	require.NoError(t, err)

	_, err = d.Merge(ctx, &model.MergeQuestRequest{
		SourceQuestID: testutil.Quest1.ID,
		TargetQuestID: testutil.Quest1.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Cannot merge a quest into itself"), err)

	mergeResp, err := d.Merge(ctx, &model.MergeQuestRequest{
		SourceQuestID: testutil.Quest1.ID,
		TargetQuestID: targetResp.Quest.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), mergeResp.MovedApplications)

	questRepo := repository.NewQuestRepository()
	source, err := questRepo.GetByID(ctx, testutil.Quest1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestCancelled, source.Status)

	// The pending application now belongs to the target quest.
	applicationRepo := repository.NewApplicationRepository()
	application, err := applicationRepo.GetByID(ctx, testutil.Application1.ID)
	require.NoError(t, err)
	require.Equal(t, targetResp.Quest.ID, application.QuestID)
	require.Equal(t, entity.ApplicationPending, application.Status)
}
