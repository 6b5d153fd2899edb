package inquiries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

// Repository persists inquiries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := r.db.WithContext(ctx).First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// UpdateStatus moves the inquiry to next only while it is still in current,
// returning the rows changed so a concurrent transition is detected.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, current, next enums.InquiryStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("id = ? AND status = ?", id, current).
		Update("status", next)
	return res.RowsAffected, res.Error
}

// List returns up to limit inquiries newest first.
func (r *Repository) List(ctx context.Context, status *enums.InquiryStatus, cursor *pagination.Cursor, limit int) ([]models.Inquiry, error) {
	tx := r.db.WithContext(ctx).Model(&models.Inquiry{})
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if cursor != nil {
		tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Inquiry
	err := tx.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
