package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, data *entity.Rating) error
	GetByID(ctx context.Context, id string) (*entity.Rating, error)
	Get(ctx context.Context, questID, raterID, ratedUserID string) (*entity.Rating, error)
	GetListByQuest(ctx context.Context, questID string) ([]entity.Rating, error)
	GetReceived(ctx context.Context, ratedUserID string) ([]entity.Rating, error)
	UpdateByID(ctx context.Context, id string, data *entity.Rating) error
	DeleteByID(ctx context.Context, id string) error
}

type ratingRepository struct{}

func NewRatingRepository() *ratingRepository {
	return &ratingRepository{}
}

func (r *ratingRepository) Create(ctx context.Context, data *entity.Rating) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *ratingRepository) GetByID(ctx context.Context, id string) (*entity.Rating, error) {
	var result entity.Rating
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ratingRepository) Get(
	ctx context.Context, questID, raterID, ratedUserID string,
) (*entity.Rating, error) {
	var result entity.Rating
	err := xcontext.DB(ctx).
		Where("quest_id=? AND rater_id=? AND rated_user_id=?", questID, raterID, ratedUserID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ratingRepository) GetListByQuest(ctx context.Context, questID string) ([]entity.Rating, error) {
	var result []entity.Rating
	err := xcontext.DB(ctx).
		Where("quest_id=?", questID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetReceived returns every rating of a user, newest first. The reputation
// recompute walks the full history.
func (r *ratingRepository) GetReceived(ctx context.Context, ratedUserID string) ([]entity.Rating, error) {
	var result []entity.Rating
	err := xcontext.DB(ctx).
		Where("rated_user_id=?", ratedUserID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ratingRepository) UpdateByID(ctx context.Context, id string, data *entity.Rating) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Rating{}).
		Where("id=?", id).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ratingRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Rating{}, "id=?", id).Error
}
