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

func newTestPartyDomain() PartyDomain {
	return NewPartyDomain(
		repository.NewPartyRepository(),
		repository.NewPartyMemberRepository(),
		repository.NewQuestRepository(),
		repository.NewUserRepository(),
		repository.NewNotificationRepository(),
	)
}

func Test_partyDomain_AddMember(t *testing.T) {
	ownerCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ownerCtx)
	d := newTestPartyDomain()

	// A plain member cannot invite.
	memberCtx := xcontext.WithRequestUserID(ownerCtx, testutil.User3.ID)
	_, err := d.AddMember(memberCtx, &model.AddPartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.Admin.ID,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	// A moderator can.
	moderatorCtx := xcontext.WithRequestUserID(ownerCtx, testutil.User2.ID)
	addResp, err := d.AddMember(moderatorCtx, &model.AddPartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.Admin.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "MEMBER", addResp.Member.Role)
	require.Equal(t, testutil.Admin.ID, addResp.Member.User.ID)

	questRepo := repository.NewQuestRepository()
	quest, err := questRepo.GetByID(ownerCtx, testutil.Quest2.ID)
	require.NoError(t, err)
	require.Equal(t, 4, quest.CurrentPartySize)

	_, err = d.AddMember(moderatorCtx, &model.AddPartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.Admin.ID,
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "User is already a party member"), err)

	// The party now sits at the quest's maximum size.
	userRepo := repository.NewUserRepository()
	extra := entity.User{Base: entity.Base{ID: "extra"}, Email: "extra@example.com", Name: "extra"}
	require.NoError(t, userRepo.Create(ownerCtx, &extra))

	_, err = d.AddMember(ownerCtx, &model.AddPartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  extra.ID,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Party is already full"), err)
}

func Test_partyDomain_RemoveMember(t *testing.T) {
	ownerCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ownerCtx)
	d := newTestPartyDomain()

	// The owner can never be removed, not even by themselves.
	_, err := d.RemoveMember(ownerCtx, &model.RemovePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User1.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "The owner cannot leave the party"), err)

	// A moderator cannot remove another moderator.
	_, err = d.PromoteMember(ownerCtx, &model.PromotePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User3.ID,
	})
	require.NoError(t, err)

	moderatorCtx := xcontext.WithRequestUserID(ownerCtx, testutil.User2.ID)
	_, err = d.RemoveMember(moderatorCtx, &model.RemovePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User3.ID,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	// Members may leave on their own.
	memberCtx := xcontext.WithRequestUserID(ownerCtx, testutil.User3.ID)
	_, err = d.DemoteMember(ownerCtx, &model.DemotePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User3.ID,
	})
	require.NoError(t, err)

	_, err = d.RemoveMember(memberCtx, &model.RemovePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User3.ID,
	})
	require.NoError(t, err)

	questRepo := repository.NewQuestRepository()
	quest, err := questRepo.GetByID(ownerCtx, testutil.Quest2.ID)
	require.NoError(t, err)
	require.Equal(t, 2, quest.CurrentPartySize)

	partyMemberRepo := repository.NewPartyMemberRepository()
	member, err := partyMemberRepo.Get(ownerCtx, testutil.Party1.ID, testutil.User3.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MemberRemoved, member.Status)
	require.True(t, member.LeftAt.Valid)
}

func Test_partyDomain_PromoteDemote(t *testing.T) {
	ownerCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ownerCtx)
	d := newTestPartyDomain()

	// Only the owner promotes; a moderator cannot.
	moderatorCtx := xcontext.WithRequestUserID(ownerCtx, testutil.User2.ID)
	_, err := d.PromoteMember(moderatorCtx, &model.PromotePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User3.ID,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	promoteResp, err := d.PromoteMember(ownerCtx, &model.PromotePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User3.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "MODERATOR", promoteResp.Member.Role)

	demoteResp, err := d.DemoteMember(ownerCtx, &model.DemotePartyMemberRequest{
		PartyID: testutil.Party1.ID,
		UserID:  testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "MEMBER", demoteResp.Member.Role)
}

func Test_partyDomain_Update(t *testing.T) {
	ownerCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ownerCtx)
	d := newTestPartyDomain()

	// Update is an owner capability, moderators excluded.
	moderatorCtx := xcontext.WithRequestUserID(ownerCtx, testutil.User2.ID)
	_, err := d.Update(moderatorCtx, &model.UpdatePartyRequest{
		PartyID: testutil.Party1.ID,
		Name:    "Renamed crew",
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	updateResp, err := d.Update(ownerCtx, &model.UpdatePartyRequest{
		PartyID:     testutil.Party1.ID,
		Name:        "Renamed crew",
		Description: "Same crew, new name.",
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed crew", updateResp.Party.Name)

	_, err = d.Update(ownerCtx, &model.UpdatePartyRequest{
		PartyID: testutil.Party1.ID,
		Name:    "ab",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Name must have from 3 to 100 characters"), err)
}

func Test_partyDomain_CompleteAndArchive(t *testing.T) {
	ownerCtx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ownerCtx)
	d := newTestPartyDomain()

	completeResp, err := d.Complete(ownerCtx, &model.CompletePartyRequest{
		PartyID: testutil.Party1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", completeResp.Party.Status)

	archiveResp, err := d.Archive(ownerCtx, &model.ArchivePartyRequest{
		PartyID: testutil.Party1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "ARCHIVED", archiveResp.Party.Status)

	_, err = d.Archive(ownerCtx, &model.ArchivePartyRequest{
		PartyID: testutil.Party1.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Party is already archived"), err)
}
