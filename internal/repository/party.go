package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PartyRepository interface {
	Create(ctx context.Context, data *entity.Party) error
	GetByID(ctx context.Context, id string) (*entity.Party, error)
	GetByQuestID(ctx context.Context, questID string) (*entity.Party, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.Party, error)
	UpdateByID(ctx context.Context, id string, data *entity.Party) error
	UpdateStatus(ctx context.Context, id string, from entity.PartyStatusType, data *entity.Party) error
}

type partyRepository struct{}

func NewPartyRepository() *partyRepository {
	return &partyRepository{}
}

func (r *partyRepository) Create(ctx context.Context, data *entity.Party) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *partyRepository) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	var result entity.Party
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *partyRepository) GetByQuestID(ctx context.Context, questID string) (*entity.Party, error) {
	var result entity.Party
	if err := xcontext.DB(ctx).Take(&result, "quest_id=?", questID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *partyRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Party, error) {
	var result []entity.Party
	err := xcontext.DB(ctx).Model(&entity.Party{}).
		Joins("join party_members on party_members.party_id=parties.id").
		Where("party_members.user_id=? AND party_members.status=?", userID, entity.MemberActive).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *partyRepository) UpdateByID(ctx context.Context, id string, data *entity.Party) error {
	return xcontext.DB(ctx).
		Model(&entity.Party{}).
		Where("id=?", id).
		Updates(data).Error
}

// UpdateStatus only moves forward from the given status, keeping the
// ACTIVE -> COMPLETED -> ARCHIVED order monotonic.
func (r *partyRepository) UpdateStatus(
	ctx context.Context, id string, from entity.PartyStatusType, data *entity.Party,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Party{}).
		Where("id=? AND status=?", id, from).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
