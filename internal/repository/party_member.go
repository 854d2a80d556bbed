package repository

import (
	"context"
	"errors"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PartyMemberRepository interface {
	Create(ctx context.Context, data *entity.PartyMember) error
	Get(ctx context.Context, partyID, userID string) (*entity.PartyMember, error)
	GetList(ctx context.Context, partyID string) ([]entity.PartyMember, error)
	CountActive(ctx context.Context, partyID string) (int64, error)
	UpdateRole(ctx context.Context, partyID, userID string, role entity.PartyRole) error
	UpdateStatus(ctx context.Context, partyID, userID string, data *entity.PartyMember) error
}

type partyMemberRepository struct{}

func NewPartyMemberRepository() *partyMemberRepository {
	return &partyMemberRepository{}
}

func (r *partyMemberRepository) Create(ctx context.Context, data *entity.PartyMember) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *partyMemberRepository) Get(ctx context.Context, partyID, userID string) (*entity.PartyMember, error) {
	var result entity.PartyMember
	err := xcontext.DB(ctx).Where("party_id=? AND user_id=?", partyID, userID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *partyMemberRepository) GetList(ctx context.Context, partyID string) ([]entity.PartyMember, error) {
	var result []entity.PartyMember
	err := xcontext.DB(ctx).
		Where("party_id=? AND status<>?", partyID, entity.MemberRemoved).
		Order("joined_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *partyMemberRepository) CountActive(ctx context.Context, partyID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.PartyMember{}).
		Where("party_id=? AND status=?", partyID, entity.MemberActive).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *partyMemberRepository) UpdateRole(
	ctx context.Context, partyID, userID string, role entity.PartyRole,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PartyMember{}).
		Where("party_id=? AND user_id=?", partyID, userID).
		Update("role", role)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *partyMemberRepository) UpdateStatus(
	ctx context.Context, partyID, userID string, data *entity.PartyMember,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PartyMember{}).
		Where("party_id=? AND user_id=?", partyID, userID).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
