package domain

import (
	"testing"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestApplicationDomain() ApplicationDomain {
	return NewApplicationDomain(
		repository.NewApplicationRepository(),
		repository.NewQuestRepository(),
		repository.NewPartyRepository(),
		repository.NewPartyMemberRepository(),
		repository.NewUserRepository(),
		repository.NewNotificationRepository(),
	)
}

func Test_applicationDomain_Apply_Failed(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestApplicationDomain()

	// User2 already has a pending application for Quest1.
	_, err := d.Apply(ctx, &model.ApplyRequest{QuestID: testutil.Quest1.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You already applied to this quest"), err)

	// Quest2 is no longer recruiting.
	_, err = d.Apply(ctx, &model.ApplyRequest{QuestID: testutil.Quest2.ID})
	require.Equal(t, errorx.New(errorx.Unavailable, "Quest is not recruiting"), err)

	// The creator cannot apply to their own quest.
	creatorCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err = d.Apply(creatorCtx, &model.ApplyRequest{QuestID: testutil.Quest1.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Cannot apply to your own quest"), err)
}

func Test_applicationDomain_ApproveUntilFull(t *testing.T) {
	creatorCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(creatorCtx)
	d := newTestApplicationDomain()

	// A third user applies alongside the fixture application of User2.
	applicantCtx := xcontext.WithRequestUserID(creatorCtx, testutil.User3.ID)
	applyResp, err := d.Apply(applicantCtx, &model.ApplyRequest{
		QuestID: testutil.Quest1.ID,
		Message: "Count me in, I have done this before.",
	})
	require.NoError(t, err)
	require.Equal(t, "PENDING", applyResp.Application.Status)

	questRepo := repository.NewQuestRepository()
	quest, err := questRepo.GetByID(creatorCtx, testutil.Quest1.ID)
	require.NoError(t, err)
	require.Equal(t, 2, quest.ApplicationCount)

	// Quest1 allows three members, so the creator plus two approvals fill it.
	approveResp, err := d.Approve(creatorCtx, &model.ApproveApplicationRequest{
		ApplicationID: testutil.Application1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "APPROVED", approveResp.Application.Status)

	quest, err = questRepo.GetByID(creatorCtx, testutil.Quest1.ID)
	require.NoError(t, err)
	require.Equal(t, 2, quest.CurrentPartySize)
	require.Equal(t, entity.QuestActive, quest.Status)

	// Approving again trips the pending guard.
	_, err = d.Approve(creatorCtx, &model.ApproveApplicationRequest{
		ApplicationID: testutil.Application1.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Application is not pending"), err)

	// The second approval fills the party and auto-closes the quest.
	_, err = d.Approve(creatorCtx, &model.ApproveApplicationRequest{
		ApplicationID: applyResp.Application.ID,
	})
	require.NoError(t, err)

	quest, err = questRepo.GetByID(creatorCtx, testutil.Quest1.ID)
	require.NoError(t, err)
	require.Equal(t, 3, quest.CurrentPartySize)
	require.Equal(t, entity.QuestInProgress, quest.Status)

	// The materialized party holds the creator and both approved applicants.
	partyRepo := repository.NewPartyRepository()
	party, err := partyRepo.GetByQuestID(creatorCtx, testutil.Quest1.ID)
	require.NoError(t, err)

	partyMemberRepo := repository.NewPartyMemberRepository()
	members, err := partyMemberRepo.GetList(creatorCtx, party.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
}

func Test_applicationDomain_Approve_NoPermission(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestApplicationDomain()

	_, err := d.Approve(ctx, &model.ApproveApplicationRequest{
		ApplicationID: testutil.Application1.ID,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)
}

func Test_applicationDomain_RejectAndWithdraw(t *testing.T) {
	creatorCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(creatorCtx)
	d := newTestApplicationDomain()

	rejectResp, err := d.Reject(creatorCtx, &model.RejectApplicationRequest{
		ApplicationID: testutil.Application1.ID,
		Feedback:      "Looking for more experience",
	})
	require.NoError(t, err)
	require.Equal(t, "REJECTED", rejectResp.Application.Status)
	require.Equal(t, "Looking for more experience", rejectResp.Application.ReviewerFeedback)

	// A rejected application can neither be withdrawn nor re-rejected.
	applicantCtx := xcontext.WithRequestUserID(creatorCtx, testutil.User2.ID)
	_, err = d.Withdraw(applicantCtx, &model.WithdrawApplicationRequest{
		ApplicationID: testutil.Application1.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Application is not pending"), err)

	// The rejected application still occupies the (quest, applicant) pair.
	_, err = d.Apply(applicantCtx, &model.ApplyRequest{QuestID: testutil.Quest1.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You already applied to this quest"), err)

	// Withdrawing is the one way to free the pair for a new application.
	otherCtx := xcontext.WithRequestUserID(creatorCtx, testutil.User3.ID)
	applyResp, err := d.Apply(otherCtx, &model.ApplyRequest{QuestID: testutil.Quest1.ID})
	require.NoError(t, err)

	_, err = d.Withdraw(otherCtx, &model.WithdrawApplicationRequest{
		ApplicationID: applyResp.Application.ID,
	})
	require.NoError(t, err)

	_, err = d.Apply(otherCtx, &model.ApplyRequest{QuestID: testutil.Quest1.ID})
	require.NoError(t, err)
}

func Test_applicationDomain_AutoApprove(t *testing.T) {
	creatorCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(creatorCtx)

	questDomain := newTestQuestDomain()
	req := validCreateQuestRequest()
	req.PartySizeMin = 1
	req.PartySizeMax = 2
	req.AutoApprove = true
	req.Activate = true
	createResp, err := questDomain.Create(creatorCtx, req)
	require.NoError(t, err)

	d := newTestApplicationDomain()
	applicantCtx := xcontext.WithRequestUserID(creatorCtx, testutil.User2.ID)
	applyResp, err := d.Apply(applicantCtx, &model.ApplyRequest{QuestID: createResp.Quest.ID})
	require.NoError(t, err)
	require.Equal(t, "APPROVED", applyResp.Application.Status)

	// The single open slot is gone, so the quest closed itself.
	questRepo := repository.NewQuestRepository()
	quest, err := questRepo.GetByID(creatorCtx, createResp.Quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestInProgress, quest.Status)
	require.Equal(t, 2, quest.CurrentPartySize)
}
