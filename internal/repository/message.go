package repository

import (
	"context"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, data *entity.Message) error
	GetByID(ctx context.Context, id int64) (*entity.Message, error)
	GetList(ctx context.Context, partyID string, before int64, limit int) ([]entity.Message, error)
	UpdateStatus(ctx context.Context, id int64, status entity.MessageStatusType) error
}

type messageRepository struct{}

func NewMessageRepository() *messageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(ctx context.Context, data *entity.Message) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*entity.Message, error) {
	var result entity.Message
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList pages backwards through the snowflake ids. A before of zero starts
// from the latest message.
func (r *messageRepository) GetList(
	ctx context.Context, partyID string, before int64, limit int,
) ([]entity.Message, error) {
	tx := xcontext.DB(ctx).
		Where("party_id=?", partyID).
		Order("id DESC").
		Limit(limit)

	if before > 0 {
		tx = tx.Where("id < ?", before)
	}

	var result []entity.Message
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *messageRepository) UpdateStatus(
	ctx context.Context, id int64, status entity.MessageStatusType,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Message{}).
		Where("id=?", id).
		Update("status", status)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
