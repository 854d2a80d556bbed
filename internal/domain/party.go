package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questparty/backend/internal/common"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PartyDomain interface {
	Get(context.Context, *model.GetPartyRequest) (*model.GetPartyResponse, error)
	GetMyList(context.Context, *model.GetMyPartiesRequest) (*model.GetMyPartiesResponse, error)
	Update(context.Context, *model.UpdatePartyRequest) (*model.UpdatePartyResponse, error)
	GetMembers(context.Context, *model.GetPartyMembersRequest) (*model.GetPartyMembersResponse, error)
	AddMember(context.Context, *model.AddPartyMemberRequest) (*model.AddPartyMemberResponse, error)
	RemoveMember(context.Context, *model.RemovePartyMemberRequest) (*model.RemovePartyMemberResponse, error)
	PromoteMember(context.Context, *model.PromotePartyMemberRequest) (*model.PromotePartyMemberResponse, error)
	DemoteMember(context.Context, *model.DemotePartyMemberRequest) (*model.DemotePartyMemberResponse, error)
	Complete(context.Context, *model.CompletePartyRequest) (*model.CompletePartyResponse, error)
	Archive(context.Context, *model.ArchivePartyRequest) (*model.ArchivePartyResponse, error)
}

type partyDomain struct {
	partyRepo         repository.PartyRepository
	partyMemberRepo   repository.PartyMemberRepository
	questRepo         repository.QuestRepository
	userRepo          repository.UserRepository
	notificationRepo  repository.NotificationRepository
	partyRoleVerifier *common.PartyRoleVerifier
}

func NewPartyDomain(
	partyRepo repository.PartyRepository,
	partyMemberRepo repository.PartyMemberRepository,
	questRepo repository.QuestRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) PartyDomain {
	return &partyDomain{
		partyRepo:         partyRepo,
		partyMemberRepo:   partyMemberRepo,
		questRepo:         questRepo,
		userRepo:          userRepo,
		notificationRepo:  notificationRepo,
		partyRoleVerifier: common.NewPartyRoleVerifier(partyMemberRepo),
	}
}

func (d *partyDomain) Get(
	ctx context.Context, req *model.GetPartyRequest,
) (*model.GetPartyResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	converted, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, party)
	if err != nil {
		return nil, err
	}

	return &model.GetPartyResponse{Party: converted}, nil
}

func (d *partyDomain) GetMyList(
	ctx context.Context, req *model.GetMyPartiesRequest,
) (*model.GetMyPartiesResponse, error) {
	parties, err := d.partyRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get parties: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Party{}
	for i := range parties {
		converted, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, &parties[i])
		if err != nil {
			return nil, err
		}

		result = append(result, converted)
	}

	return &model.GetMyPartiesResponse{Parties: result}, nil
}

func (d *partyDomain) Update(
	ctx context.Context, req *model.UpdatePartyRequest,
) (*model.UpdatePartyResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.UpdateParty); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	if req.Name != "" && (len(req.Name) < 3 || len(req.Name) > 100) {
		return nil, errorx.New(errorx.BadRequest, "Name must have from 3 to 100 characters")
	}

	err = d.partyRepo.UpdateByID(ctx, party.ID, &entity.Party{
		Name:        req.Name,
		Description: []byte(req.Description),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update party: %v", err)
		return nil, errorx.Unknown
	}

	party, err = d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	converted, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, party)
	if err != nil {
		return nil, err
	}

	return &model.UpdatePartyResponse{Party: converted}, nil
}

func (d *partyDomain) GetMembers(
	ctx context.Context, req *model.GetPartyMembersRequest,
) (*model.GetPartyMembersResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	converted, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, party)
	if err != nil {
		return nil, err
	}

	return &model.GetPartyMembersResponse{Members: converted.Members}, nil
}

func (d *partyDomain) AddMember(
	ctx context.Context, req *model.AddPartyMemberRequest,
) (*model.AddPartyMemberResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	if party.Status != entity.PartyActive {
		return nil, errorx.New(errorx.Unavailable, "Party cannot accept new members")
	}

	if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.AddMember); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	existing, err := d.partyMemberRepo.Get(ctx, party.ID, user.ID)
	if err == nil && existing.Status != entity.MemberRemoved {
		return nil, errorx.New(errorx.AlreadyExists, "User is already a party member")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get party member: %v", err)
		return nil, errorx.Unknown
	}

	quest, err := d.questRepo.GetByID(ctx, party.QuestID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	count, err := d.partyMemberRepo.CountActive(ctx, party.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count party members: %v", err)
		return nil, errorx.Unknown
	}

	if count >= int64(quest.PartySizeMax) {
		return nil, errorx.New(errorx.Unavailable, "Party is already full")
	}

	now := time.Now()
	member := &entity.PartyMember{
		PartyID:  party.ID,
		UserID:   user.ID,
		Role:     entity.RoleMember,
		Status:   entity.MemberActive,
		JoinedAt: now,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if existing != nil && existing.Status == entity.MemberRemoved {
		err = d.partyMemberRepo.UpdateStatus(ctx, party.ID, user.ID, &entity.PartyMember{
			Status:   entity.MemberActive,
			Role:     entity.RoleMember,
			JoinedAt: now,
		})
	} else {
		err = d.partyMemberRepo.Create(ctx, member)
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add party member: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.IncreaseQuestCounters(ctx, user.ID, 0, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase quest counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questRepo.IncreasePartySize(ctx, quest.ID, 1); err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot increase party size: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.AddPartyMemberResponse{
		Member: model.ConvertPartyMember(member, user),
	}, nil
}

func (d *partyDomain) RemoveMember(
	ctx context.Context, req *model.RemovePartyMemberRequest,
) (*model.RemovePartyMemberResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	target, err := d.partyMemberRepo.Get(ctx, party.ID, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found party member")
		}

		xcontext.Logger(ctx).Errorf("Cannot get party member: %v", err)
		return nil, errorx.Unknown
	}

	if target.Status != entity.MemberActive {
		return nil, errorx.New(errorx.BadRequest, "Member is not active")
	}

	if target.Role == entity.RoleOwner {
		return nil, errorx.New(errorx.BadRequest, "The owner cannot leave the party")
	}

	requesterID := xcontext.RequestUserID(ctx)
	leaving := requesterID == req.UserID
	if !leaving {
		requester, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.RemoveMember)
		if err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}

		// A moderator cannot remove a peer moderator.
		if requester.Role == entity.RoleModerator && target.Role == entity.RoleModerator {
			return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
		}
	}

	now := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.partyMemberRepo.UpdateStatus(ctx, party.ID, req.UserID, &entity.PartyMember{
		Status: entity.MemberRemoved,
		LeftAt: nullTime(now),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove party member: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.questRepo.IncreasePartySize(ctx, party.QuestID, -1); err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot decrease party size: %v", err)
		return nil, errorx.Unknown
	}

	if !leaving {
		err = notify(ctx, d.notificationRepo, req.UserID, entity.NotifyMemberRemoved,
			"Removed from party",
			"You were removed from "+party.Name,
			partyMetadata{PartyID: party.ID, PartyName: party.Name})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.RemovePartyMemberResponse{}, nil
}

func (d *partyDomain) PromoteMember(
	ctx context.Context, req *model.PromotePartyMemberRequest,
) (*model.PromotePartyMemberResponse, error) {
	member, err := d.changeRole(ctx, req.PartyID, req.UserID,
		common.PromoteMember, entity.RoleMember, entity.RoleModerator)
	if err != nil {
		return nil, err
	}

	return &model.PromotePartyMemberResponse{Member: member}, nil
}

func (d *partyDomain) DemoteMember(
	ctx context.Context, req *model.DemotePartyMemberRequest,
) (*model.DemotePartyMemberResponse, error) {
	member, err := d.changeRole(ctx, req.PartyID, req.UserID,
		common.DemoteMember, entity.RoleModerator, entity.RoleMember)
	if err != nil {
		return nil, err
	}

	return &model.DemotePartyMemberResponse{Member: member}, nil
}

func (d *partyDomain) changeRole(
	ctx context.Context,
	partyID, userID string,
	action common.PartyAction,
	from, to entity.PartyRole,
) (model.PartyMember, error) {
	party, err := d.getParty(ctx, partyID)
	if err != nil {
		return model.PartyMember{}, err
	}

	if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, action); err != nil {
		return model.PartyMember{}, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	target, err := d.partyMemberRepo.Get(ctx, party.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PartyMember{}, errorx.New(errorx.NotFound, "Not found party member")
		}

		xcontext.Logger(ctx).Errorf("Cannot get party member: %v", err)
		return model.PartyMember{}, errorx.Unknown
	}

	if target.Status != entity.MemberActive {
		return model.PartyMember{}, errorx.New(errorx.BadRequest, "Member is not active")
	}

	if target.Role != from {
		return model.PartyMember{}, errorx.New(errorx.BadRequest,
			"Cannot change role from %s to %s", target.Role, to)
	}

	if err := d.partyMemberRepo.UpdateRole(ctx, party.ID, userID, to); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot change member role: %v", err)
		return model.PartyMember{}, errorx.Unknown
	}

	target.Role = to

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return model.PartyMember{}, errorx.Unknown
	}

	return model.ConvertPartyMember(target, user), nil
}

func (d *partyDomain) Complete(
	ctx context.Context, req *model.CompletePartyRequest,
) (*model.CompletePartyResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	if party.Status != entity.PartyActive {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot transition from %s to %s", party.Status, entity.PartyCompleted)
	}

	if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.CompleteQuest); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	now := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.partyRepo.UpdateStatus(ctx, party.ID, entity.PartyActive,
		&entity.Party{Status: entity.PartyCompleted, CompletedAt: nullTime(now)})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete party: %v", err)
		return nil, errorx.Unknown
	}

	party.Status = entity.PartyCompleted
	party.CompletedAt = nullTime(now)

	members, err := d.partyMemberRepo.GetList(ctx, party.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get party members: %v", err)
		return nil, errorx.Unknown
	}

	for _, member := range members {
		if member.Status != entity.MemberActive {
			continue
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

	xcontext.WithCommitDBTransaction(ctx)

	converted, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, party)
	if err != nil {
		return nil, err
	}

	return &model.CompletePartyResponse{Party: converted}, nil
}

func (d *partyDomain) Archive(
	ctx context.Context, req *model.ArchivePartyRequest,
) (*model.ArchivePartyResponse, error) {
	party, err := d.getParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	if party.Status == entity.PartyArchived {
		return nil, errorx.New(errorx.BadRequest, "Party is already archived")
	}

	if _, err := d.partyRoleVerifier.Verify(ctx, party.ID, common.ArchiveParty); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Not enough permissions")
	}

	now := time.Now()
	err = d.partyRepo.UpdateStatus(ctx, party.ID, party.Status,
		&entity.Party{Status: entity.PartyArchived, ArchivedAt: nullTime(now)})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot archive party: %v", err)
		return nil, errorx.Unknown
	}

	party.Status = entity.PartyArchived
	party.ArchivedAt = nullTime(now)

	converted, err := convertPartyWithMembers(ctx, d.partyMemberRepo, d.userRepo, party)
	if err != nil {
		return nil, err
	}

	return &model.ArchivePartyResponse{Party: converted}, nil
}

func (d *partyDomain) getParty(ctx context.Context, partyID string) (*entity.Party, error) {
	party, err := d.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found party")
		}

		xcontext.Logger(ctx).Errorf("Cannot get party: %v", err)
		return nil, errorx.Unknown
	}

	return party, nil
}
