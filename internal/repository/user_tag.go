package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserTagRepository interface {
	Create(ctx context.Context, data *entity.UserTag) error
	Get(ctx context.Context, userID, tagID string) (*entity.UserTag, error)
	GetList(ctx context.Context, userID string) ([]entity.UserTag, error)
	Update(ctx context.Context, userID, tagID string, data *entity.UserTag) error
	Delete(ctx context.Context, userID, tagID string) error
}

type userTagRepository struct{}

func NewUserTagRepository() *userTagRepository {
	return &userTagRepository{}
}

func (r *userTagRepository) Create(ctx context.Context, data *entity.UserTag) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userTagRepository) Get(ctx context.Context, userID, tagID string) (*entity.UserTag, error) {
	var result entity.UserTag
	err := xcontext.DB(ctx).Where("user_id=? AND tag_id=?", userID, tagID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userTagRepository) GetList(ctx context.Context, userID string) ([]entity.UserTag, error) {
	var result []entity.UserTag
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("is_primary DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userTagRepository) Update(
	ctx context.Context, userID, tagID string, data *entity.UserTag,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserTag{}).
		Where("user_id=? AND tag_id=?", userID, tagID).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userTagRepository) Delete(ctx context.Context, userID, tagID string) error {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND tag_id=?", userID, tagID).
		Delete(&entity.UserTag{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
