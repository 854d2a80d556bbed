package domain

import (
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/questparty/backend/pkg/ws"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestChatDomain(t *testing.T) ChatDomain {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewChatDomain(
		repository.NewMessageRepository(),
		repository.NewPartyRepository(),
		repository.NewPartyMemberRepository(),
		repository.NewUserRepository(),
		ws.NewHub(),
		node,
	)
}

func Test_chatDomain_Send(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestChatDomain(t)

	_, err := d.Send(ctx, &model.SendMessageRequest{PartyID: testutil.Party1.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty message"), err)

	_, err = d.Send(ctx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: strings.Repeat("x", 4001),
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Message is too long"), err)

	// Outsiders cannot chat.
	outsiderCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = d.Send(outsiderCtx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "hello",
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	sendResp, err := d.Send(ctx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "Anyone up for a session tonight?",
	})
	require.NoError(t, err)
	require.NotZero(t, sendResp.Message.ID)
	require.Equal(t, testutil.User2.ID, sendResp.Message.Author.ID)

	// Replies must point at a message of the same party.
	_, err = d.Send(ctx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "Replying to nothing",
		ReplyTo: 12345,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid replied message"), err)

	replyResp, err := d.Send(ctx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "Replying to myself",
		ReplyTo: sendResp.Message.ID,
	})
	require.NoError(t, err)
	require.Equal(t, sendResp.Message.ID, replyResp.Message.ReplyTo)

	listResp, err := d.GetList(ctx, &model.GetMessagesRequest{PartyID: testutil.Party1.ID})
	require.NoError(t, err)
	require.Len(t, listResp.Messages, 2)
}

func Test_chatDomain_Delete(t *testing.T) {
	memberCtx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(memberCtx)
	d := newTestChatDomain(t)

	sendResp, err := d.Send(memberCtx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "I might be late today",
	})
	require.NoError(t, err)

	moderatorResp, err := d.Send(
		xcontext.WithRequestUserID(memberCtx, testutil.User2.ID),
		&model.SendMessageRequest{
			PartyID: testutil.Party1.ID,
			Content: "No problem, see you then",
		})
	require.NoError(t, err)

	// A plain member cannot delete someone else's message.
	_, err = d.Delete(memberCtx, &model.DeleteMessageRequest{
		PartyID:   testutil.Party1.ID,
		MessageID: moderatorResp.Message.ID,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Not enough permissions"), err)

	// But may delete their own.
	_, err = d.Delete(memberCtx, &model.DeleteMessageRequest{
		PartyID:   testutil.Party1.ID,
		MessageID: sendResp.Message.ID,
	})
	require.NoError(t, err)

	// Moderators may delete anything in their party.
	moderatorCtx := xcontext.WithRequestUserID(memberCtx, testutil.User2.ID)
	_, err = d.Delete(moderatorCtx, &model.DeleteMessageRequest{
		PartyID:   testutil.Party1.ID,
		MessageID: moderatorResp.Message.ID,
	})
	require.NoError(t, err)

	// Deleted messages stay in the list with their content blanked.
	listResp, err := d.GetList(memberCtx, &model.GetMessagesRequest{PartyID: testutil.Party1.ID})
	require.NoError(t, err)
	require.Len(t, listResp.Messages, 2)
	for _, message := range listResp.Messages {
		require.Equal(t, "deleted", message.Status)
		require.Empty(t, message.Content)
	}
}

func Test_chatDomain_ArchivedParty(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestChatDomain(t)

	_, err := d.Send(ctx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "Last call before archive",
	})
	require.NoError(t, err)

	partyRepo := repository.NewPartyRepository()
	err = partyRepo.UpdateStatus(ctx, testutil.Party1.ID, entity.PartyActive,
		&entity.Party{Status: entity.PartyArchived})
	require.NoError(t, err)

	_, err = d.Send(ctx, &model.SendMessageRequest{
		PartyID: testutil.Party1.ID,
		Content: "One more thing",
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Party chat is archived"), err)

	// History stays readable.
	listResp, err := d.GetList(ctx, &model.GetMessagesRequest{PartyID: testutil.Party1.ID})
	require.NoError(t, err)
	require.Len(t, listResp.Messages, 1)
}
