package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	// Upsert awards the achievement if not already awarded. It reports
	// whether a new row was written.
	Upsert(ctx context.Context, data *entity.Achievement) (bool, error)
	GetList(ctx context.Context, userID string) ([]entity.Achievement, error)
}

type achievementRepository struct{}

func NewAchievementRepository() *achievementRepository {
	return &achievementRepository{}
}

func (r *achievementRepository) Upsert(ctx context.Context, data *entity.Achievement) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *achievementRepository) GetList(ctx context.Context, userID string) ([]entity.Achievement, error) {
	var result []entity.Achievement
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("awarded_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
