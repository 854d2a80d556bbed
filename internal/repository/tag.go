package repository

import (
	"context"
	"errors"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TagFilter struct {
	Category entity.TagCategoryType
	Status   entity.TagStatusType
	Q        string
	Offset   int
	Limit    int
}

type CategoryCount struct {
	Category entity.TagCategoryType
	Count    int64
}

type TagRepository interface {
	Create(ctx context.Context, data *entity.Tag) error
	GetByID(ctx context.Context, id string) (*entity.Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tag, error)
	GetList(ctx context.Context, filter TagFilter) ([]entity.Tag, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]entity.Tag, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	UpdateByID(ctx context.Context, id string, data *entity.Tag) error
	IncreaseUsageCount(ctx context.Context, id string, delta int) error
	DeleteByID(ctx context.Context, id string) error
}

type tagRepository struct{}

func NewTagRepository() *tagRepository {
	return &tagRepository{}
}

func (r *tagRepository) Create(ctx context.Context, data *entity.Tag) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	var result entity.Tag
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Tag, error) {
	var result []entity.Tag
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tag, error) {
	var result entity.Tag
	if err := xcontext.DB(ctx).Take(&result, "slug=?", slug).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tagRepository) GetList(ctx context.Context, filter TagFilter) ([]entity.Tag, error) {
	tx := xcontext.DB(ctx).Model(&entity.Tag{}).Order("usage_count DESC, name ASC")

	if filter.Category != "" {
		tx = tx.Where("category=?", filter.Category)
	}

	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	if filter.Q != "" {
		tx = tx.Where("name LIKE ?", "%"+filter.Q+"%")
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.Tag
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tagRepository) Suggest(ctx context.Context, prefix string, limit int) ([]entity.Tag, error) {
	var result []entity.Tag
	err := xcontext.DB(ctx).
		Where("name LIKE ?", prefix+"%").
		Order("usage_count DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tagRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var result []CategoryCount
	err := xcontext.DB(ctx).Model(&entity.Tag{}).
		Select("category, count(*) as count").
		Group("category").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tagRepository) UpdateByID(ctx context.Context, id string, data *entity.Tag) error {
	return xcontext.DB(ctx).
		Model(&entity.Tag{}).
		Where("id=?", id).
		Updates(data).Error
}

func (r *tagRepository) IncreaseUsageCount(ctx context.Context, id string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Tag{}).
		Where("id=?", id)

	if delta < 0 {
		tx = tx.Where("usage_count + ? >= 0", delta)
	}

	tx = tx.Update("usage_count", gorm.Expr("usage_count+?", delta))
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

func (r *tagRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Tag{}, "id=?", id).Error
}
