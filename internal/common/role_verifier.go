package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...string) error {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user is not valid")
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}

type PartyAction string

const (
	ReviewApplications PartyAction = "review_applications"
	CreatePartyQuest   PartyAction = "create_party_quest"
	CompleteQuest      PartyAction = "complete_quest"
	UpdateParty        PartyAction = "update_party"
	ArchiveParty       PartyAction = "archive_party"
	AddMember          PartyAction = "add_member"
	RemoveMember       PartyAction = "remove_member"
	PromoteMember      PartyAction = "promote_member"
	DemoteMember       PartyAction = "demote_member"
	ModerateMessages   PartyAction = "moderate_messages"
)

// partyCapabilities is the single source of truth for what each party role
// may do. Domains must dispatch through Can instead of comparing roles.
var partyCapabilities = map[entity.PartyRole]map[PartyAction]bool{
	entity.RoleOwner: {
		ReviewApplications: true,
		CreatePartyQuest:   true,
		CompleteQuest:      true,
		UpdateParty:        true,
		ArchiveParty:       true,
		AddMember:          true,
		RemoveMember:       true,
		PromoteMember:      true,
		DemoteMember:       true,
		ModerateMessages:   true,
	},
	entity.RoleModerator: {
		ReviewApplications: true,
		CreatePartyQuest:   true,
		CompleteQuest:      true,
		AddMember:          true,
		RemoveMember:       true,
		ModerateMessages:   true,
	},
	entity.RoleMember: {},
}

func Can(role entity.PartyRole, action PartyAction) bool {
	return partyCapabilities[role][action]
}

type PartyRoleVerifier struct {
	partyMemberRepo repository.PartyMemberRepository
}

func NewPartyRoleVerifier(partyMemberRepo repository.PartyMemberRepository) *PartyRoleVerifier {
	return &PartyRoleVerifier{partyMemberRepo: partyMemberRepo}
}

// Verify resolves the request user's active membership in the party and
// checks the capability table. The membership row is returned so callers can
// inspect the role without another query.
func (verifier *PartyRoleVerifier) Verify(
	ctx context.Context, partyID string, action PartyAction,
) (*entity.PartyMember, error) {
	member, err := verifier.Member(ctx, partyID)
	if err != nil {
		return nil, err
	}

	if !Can(member.Role, action) {
		return nil, errors.New("user role does not have permission")
	}

	return member, nil
}

// Member returns the request user's active membership without any capability
// check.
func (verifier *PartyRoleVerifier) Member(
	ctx context.Context, partyID string,
) (*entity.PartyMember, error) {
	userID := xcontext.RequestUserID(ctx)
	member, err := verifier.partyMemberRepo.Get(ctx, partyID, userID)
	if err != nil {
		return nil, fmt.Errorf("user is not a party member")
	}

	if member.Status != entity.MemberActive {
		return nil, fmt.Errorf("user is not an active party member")
	}

	return member, nil
}
