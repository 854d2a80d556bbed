package repository

import (
	"context"
	"errors"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestFilter struct {
	CreatorID  string
	PartyID    string
	Statuses   []entity.QuestStatusType
	Category   entity.QuestCategoryType
	Visibility entity.VisibilityType
	IDs        []string
	Offset     int
	Limit      int
}

type QuestRepository interface {
	Create(ctx context.Context, data *entity.Quest) error
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Quest, error)
	GetList(ctx context.Context, filter QuestFilter) ([]entity.Quest, error)
	UpdateByID(ctx context.Context, id string, data *entity.Quest) error
	UpdateStatus(ctx context.Context, id string, from []entity.QuestStatusType, data *entity.Quest) error
	DeleteByID(ctx context.Context, id string) error
	IncreaseViewCount(ctx context.Context, id string) error
	IncreaseApplicationCount(ctx context.Context, id string) error
	IncreasePartySize(ctx context.Context, id string, delta int) error
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, data *entity.Quest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	var result entity.Quest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Quest, error) {
	var result []entity.Quest
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetList(ctx context.Context, filter QuestFilter) ([]entity.Quest, error) {
	tx := xcontext.DB(ctx).Model(&entity.Quest{}).Order("created_at DESC")

	if filter.CreatorID != "" {
		tx = tx.Where("creator_id=?", filter.CreatorID)
	}

	if filter.PartyID != "" {
		tx = tx.Where("party_id=?", filter.PartyID)
	}

	if len(filter.Statuses) > 0 {
		tx = tx.Where("status IN (?)", filter.Statuses)
	}

	if filter.Category != "" {
		tx = tx.Where("category=?", filter.Category)
	}

	if filter.Visibility != "" {
		tx = tx.Where("visibility=?", filter.Visibility)
	}

	if len(filter.IDs) > 0 {
		tx = tx.Where("id IN (?)", filter.IDs)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.Quest
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) UpdateByID(ctx context.Context, id string, data *entity.Quest) error {
	return xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id).
		Updates(data).Error
}

// UpdateStatus applies data only when the quest is currently in one of the
// given statuses, so concurrent transitions cannot double-fire.
func (r *questRepository) UpdateStatus(
	ctx context.Context, id string, from []entity.QuestStatusType, data *entity.Quest,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=? AND status IN (?)", id, from).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Quest{}, "id=?", id).Error
}

func (r *questRepository) IncreaseViewCount(ctx context.Context, id string) error {
	return xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id).
		Update("view_count", gorm.Expr("view_count+1")).Error
}

func (r *questRepository) IncreaseApplicationCount(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id).
		Update("application_count", gorm.Expr("application_count+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questRepository) IncreasePartySize(ctx context.Context, id string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=?", id)

	if delta > 0 {
		tx = tx.Where("current_party_size + ? <= party_size_max", delta)
	} else {
		tx = tx.Where("current_party_size + ? >= 0", delta)
	}

	tx = tx.Update("current_party_size", gorm.Expr("current_party_size+?", delta))
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
