package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestTagRepository interface {
	Create(ctx context.Context, data *entity.QuestTag) error
	Get(ctx context.Context, questID, tagID string) (*entity.QuestTag, error)
	GetList(ctx context.Context, questID string) ([]entity.QuestTag, error)
	GetListByTagIDs(ctx context.Context, tagIDs []string) ([]entity.QuestTag, error)
	Update(ctx context.Context, questID, tagID string, data *entity.QuestTag) error
	Delete(ctx context.Context, questID, tagID string) error
}

type questTagRepository struct{}

func NewQuestTagRepository() *questTagRepository {
	return &questTagRepository{}
}

func (r *questTagRepository) Create(ctx context.Context, data *entity.QuestTag) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questTagRepository) Get(ctx context.Context, questID, tagID string) (*entity.QuestTag, error) {
	var result entity.QuestTag
	err := xcontext.DB(ctx).Where("quest_id=? AND tag_id=?", questID, tagID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questTagRepository) GetList(ctx context.Context, questID string) ([]entity.QuestTag, error) {
	var result []entity.QuestTag
	err := xcontext.DB(ctx).
		Where("quest_id=?", questID).
		Order("is_required DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questTagRepository) GetListByTagIDs(
	ctx context.Context, tagIDs []string,
) ([]entity.QuestTag, error) {
	var result []entity.QuestTag
	err := xcontext.DB(ctx).Find(&result, "tag_id IN (?)", tagIDs).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questTagRepository) Update(
	ctx context.Context, questID, tagID string, data *entity.QuestTag,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.QuestTag{}).
		Where("quest_id=? AND tag_id=?", questID, tagID).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questTagRepository) Delete(ctx context.Context, questID, tagID string) error {
	tx := xcontext.DB(ctx).
		Where("quest_id=? AND tag_id=?", questID, tagID).
		Delete(&entity.QuestTag{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
