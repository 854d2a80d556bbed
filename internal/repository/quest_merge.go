package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
)

type QuestMergeRepository interface {
	Create(ctx context.Context, data *entity.QuestMerge) error
	GetListByTarget(ctx context.Context, targetQuestID string) ([]entity.QuestMerge, error)
}

type questMergeRepository struct{}

func NewQuestMergeRepository() *questMergeRepository {
	return &questMergeRepository{}
}

func (r *questMergeRepository) Create(ctx context.Context, data *entity.QuestMerge) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questMergeRepository) GetListByTarget(
	ctx context.Context, targetQuestID string,
) ([]entity.QuestMerge, error) {
	var result []entity.QuestMerge
	err := xcontext.DB(ctx).
		Where("target_quest_id=?", targetQuestID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
