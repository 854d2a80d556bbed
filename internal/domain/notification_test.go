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

func Test_notificationDomain_GetMyList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewNotificationDomain(repository.NewNotificationRepository())

	// Reviewing the fixture application notifies the applicant.
	applicationDomain := newTestApplicationDomain()
	creatorCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := applicationDomain.Approve(creatorCtx, &model.ApproveApplicationRequest{
		ApplicationID: testutil.Application1.ID,
	})
	require.NoError(t, err)

	resp, err := d.GetMyList(ctx, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	require.Equal(t, int64(1), resp.UnreadCount)
	require.Equal(t, string(entity.NotifyApplicationApproved), resp.Notifications[0].Type)
	require.False(t, resp.Notifications[0].IsRead)

	// The creator received nothing.
	creatorResp, err := d.GetMyList(creatorCtx, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Empty(t, creatorResp.Notifications)
	require.Equal(t, int64(0), creatorResp.UnreadCount)
}

func Test_notificationDomain_MarkRead(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewNotificationDomain(repository.NewNotificationRepository())

	applicationDomain := newTestApplicationDomain()
	creatorCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := applicationDomain.Reject(creatorCtx, &model.RejectApplicationRequest{
		ApplicationID: testutil.Application1.ID,
		Feedback:      "Party went another way",
	})
	require.NoError(t, err)

	resp, err := d.GetMyList(ctx, &model.GetMyNotificationsRequest{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	notificationID := resp.Notifications[0].ID

	// Nobody can read on behalf of someone else.
	_, err = d.MarkRead(creatorCtx, &model.MarkNotificationReadRequest{
		NotificationID: notificationID,
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found notification"), err)

	_, err = d.MarkRead(ctx, &model.MarkNotificationReadRequest{
		NotificationID: notificationID,
	})
	require.NoError(t, err)

	resp, err = d.GetMyList(ctx, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.UnreadCount)
	require.True(t, resp.Notifications[0].IsRead)
	require.NotEmpty(t, resp.Notifications[0].ReadAt)

	// Unread-only filtering hides it now.
	resp, err = d.GetMyList(ctx, &model.GetMyNotificationsRequest{UnreadOnly: true})
	require.NoError(t, err)
	require.Empty(t, resp.Notifications)
}

func Test_notificationDomain_MarkAllRead(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	notificationRepo := repository.NewNotificationRepository()
	d := NewNotificationDomain(notificationRepo)

	notifications := []entity.Notification{
		{
			Base:    entity.Base{ID: "notification1"},
			UserID:  testutil.User2.ID,
			Type:    entity.NotifyPartyCompleted,
			Title:   "Your party completed a quest",
			Content: []byte("Weekend hiking crew wrapped up."),
		},
		{
			Base:    entity.Base{ID: "notification2"},
			UserID:  testutil.User2.ID,
			Type:    entity.NotifyMemberRemoved,
			Title:   "You were removed from a party",
			Content: []byte("The owner removed you from the party."),
		},
	}
	for i := range notifications {
		require.NoError(t, notificationRepo.Create(ctx, &notifications[i]))
	}

	resp, err := d.GetMyList(ctx, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.UnreadCount)

	_, err = d.MarkAllRead(ctx, &model.MarkAllNotificationsReadRequest{})
	require.NoError(t, err)

	resp, err = d.GetMyList(ctx, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.UnreadCount)
	for _, notification := range resp.Notifications {
		require.True(t, notification.IsRead)
	}
}
