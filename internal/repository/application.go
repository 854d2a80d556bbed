package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ApplicationFilter struct {
	QuestID     string
	ApplicantID string
	Status      entity.ApplicationStatusType
	Offset      int
	Limit       int
}

type ApplicationRepository interface {
	Create(ctx context.Context, data *entity.Application) error
	GetByID(ctx context.Context, id string) (*entity.Application, error)
	GetList(ctx context.Context, filter ApplicationFilter) ([]entity.Application, error)
	GetActive(ctx context.Context, questID, applicantID string) (*entity.Application, error)
	GetApproved(ctx context.Context, questID string) ([]entity.Application, error)
	CountApproved(ctx context.Context, questID string) (int64, error)
	UpdateStatus(ctx context.Context, id string, from entity.ApplicationStatusType, data *entity.Application) error
	MovePending(ctx context.Context, sourceQuestID, targetQuestID string) (int64, error)
}

type applicationRepository struct{}

func NewApplicationRepository() *applicationRepository {
	return &applicationRepository{}
}

func (r *applicationRepository) Create(ctx context.Context, data *entity.Application) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	var result entity.Application
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *applicationRepository) GetList(
	ctx context.Context, filter ApplicationFilter,
) ([]entity.Application, error) {
	tx := xcontext.DB(ctx).Model(&entity.Application{}).Order("created_at ASC")

	if filter.QuestID != "" {
		tx = tx.Where("quest_id=?", filter.QuestID)
	}

	if filter.ApplicantID != "" {
		tx = tx.Where("applicant_id=?", filter.ApplicantID)
	}

	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.Application
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetActive returns the applicant's non-withdrawn application for a quest.
func (r *applicationRepository) GetActive(
	ctx context.Context, questID, applicantID string,
) (*entity.Application, error) {
	var result entity.Application
	err := xcontext.DB(ctx).
		Where("quest_id=? AND applicant_id=? AND status<>?",
			questID, applicantID, entity.ApplicationWithdrawn).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *applicationRepository) GetApproved(
	ctx context.Context, questID string,
) ([]entity.Application, error) {
	var result []entity.Application
	err := xcontext.DB(ctx).
		Where("quest_id=? AND status=?", questID, entity.ApplicationApproved).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *applicationRepository) CountApproved(ctx context.Context, questID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Application{}).
		Where("quest_id=? AND status=?", questID, entity.ApplicationApproved).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// UpdateStatus applies data only when the application is still in the from
// status. Concurrent reviews of the same application make at most one win.
func (r *applicationRepository) UpdateStatus(
	ctx context.Context, id string, from entity.ApplicationStatusType, data *entity.Application,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Application{}).
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

func (r *applicationRepository) MovePending(
	ctx context.Context, sourceQuestID, targetQuestID string,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Application{}).
		Where("quest_id=? AND status=?", sourceQuestID, entity.ApplicationPending).
		Update("quest_id", targetQuestID)

	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}
