package domain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/websocket"
	"github.com/questparty/backend/internal/common"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/ws"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChatDomain interface {
	Send(context.Context, *model.SendMessageRequest) (*model.SendMessageResponse, error)
	GetList(context.Context, *model.GetMessagesRequest) (*model.GetMessagesResponse, error)
	Delete(context.Context, *model.DeleteMessageRequest) (*model.DeleteMessageResponse, error)
	ServeChannel(ctx context.Context) error
}

type chatDomain struct {
	messageRepo       repository.MessageRepository
	partyRepo         repository.PartyRepository
	partyMemberRepo   repository.PartyMemberRepository
	userRepo          repository.UserRepository
	hub               *ws.Hub
	idGenerator       *snowflake.Node
	partyRoleVerifier *common.PartyRoleVerifier
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewChatDomain(
	messageRepo repository.MessageRepository,
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
	idGenerator *snowflake.Node,
) ChatDomain {
	return &chatDomain{
		messageRepo:       messageRepo,
		partyRepo:         partyRepo,
		partyMemberRepo:   partyMemberRepo,
		userRepo:          userRepo,
		hub:               hub,
		idGenerator:       idGenerator,
		partyRoleVerifier: common.NewPartyRoleVerifier(partyMemberRepo),
	}
}

func (d *chatDomain) Send(
	ctx context.Context, req *model.SendMessageRequest,
) (*model.SendMessageResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty message")
	}

	if len(req.Content) > 4000 {
		return nil, errorx.New(errorx.BadRequest, "Message is too long")
	}

	party, member, err := d.getChattableParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	// Archived parties keep their history but accept no new messages.
	if party.Status == entity.PartyArchived {
		return nil, errorx.New(errorx.Unavailable, "Party chat is archived")
	}

	if req.ReplyTo != 0 {
		replied, err := d.messageRepo.GetByID(ctx, req.ReplyTo)
		if err != nil || replied.PartyID != party.ID {
			return nil, errorx.New(errorx.BadRequest, "Invalid replied message")
		}
	}

	message := &entity.Message{
		ID:      d.idGenerator.Generate().Int64(),
		PartyID: party.ID,
		UserID:  member.UserID,
		Status:  entity.MessageVisible,
		Content: req.Content,
		ReplyTo: req.ReplyTo,
	}

	if err := d.messageRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, member.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	converted := model.ConvertMessage(message, author)
	if b, err := json.Marshal(converted); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal message: %v", err)
	} else {
		d.hub.BroadCastByChannel(party.ID, b)
	}

	return &model.SendMessageResponse{Message: converted}, nil
}

func (d *chatDomain) GetList(
	ctx context.Context, req *model.GetMessagesRequest,
) (*model.GetMessagesResponse, error) {
	party, _, err := d.getChattableParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	_, limit := common.Pagination(0, req.Limit)
	messages, err := d.messageRepo.GetList(ctx, party.ID, req.Before, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get messages: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := []string{}
	for _, message := range messages {
		authorIDs = append(authorIDs, message.UserID)
	}

	authors, err := d.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get authors: %v", err)
		return nil, errorx.Unknown
	}

	authorByID := map[string]entity.User{}
	for _, author := range authors {
		authorByID[author.ID] = author
	}

	result := []model.Message{}
	for i := range messages {
		author := authorByID[messages[i].UserID]
		result = append(result, model.ConvertMessage(&messages[i], &author))
	}

	return &model.GetMessagesResponse{Messages: result}, nil
}

func (d *chatDomain) Delete(
	ctx context.Context, req *model.DeleteMessageRequest,
) (*model.DeleteMessageResponse, error) {
	message, err := d.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot get message: %v", err)
		return nil, errorx.Unknown
	}

	if req.PartyID != "" && message.PartyID != req.PartyID {
		return nil, errorx.New(errorx.NotFound, "Not found message")
	}

	if message.UserID != xcontext.RequestUserID(ctx) {
		_, err := d.partyRoleVerifier.Verify(ctx, message.PartyID, common.ModerateMessages)
		if err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}
	}

	if err := d.messageRepo.UpdateStatus(ctx, message.ID, entity.MessageDeleted); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete message: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteMessageResponse{}, nil
}

// ServeChannel upgrades the request to a websocket subscribed to the party's
// chat channel. The party id comes from the channel_id query parameter.
func (d *chatDomain) ServeChannel(ctx context.Context) error {
	r := xcontext.HTTPRequest(ctx)
	partyID := r.URL.Query().Get("channel_id")
	if partyID == "" {
		return errorx.New(errorx.BadRequest, "Not allow an empty channel_id")
	}

	_, member, err := d.getChattableParty(ctx, partyID)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(xcontext.HTTPWriter(ctx), r, nil)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upgrade the connection: %v", err)
		return errorx.Unknown
	}

	client := ws.NewClient(d.hub, conn, partyID, member.UserID)
	client.Run()
	return nil
}

// getChattableParty resolves the party and the requester's active
// membership.
func (d *chatDomain) getChattableParty(
	ctx context.Context, partyID string,
) (*entity.Party, *entity.PartyMember, error) {
	party, err := d.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.NotFound, "Not found party")
		}

		xcontext.Logger(ctx).Errorf("Cannot get party: %v", err)
		return nil, nil, errorx.Unknown
	}

	member, err := d.partyRoleVerifier.Member(ctx, party.ID)
	if err != nil {
		return nil, nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	return party, member, nil
}
