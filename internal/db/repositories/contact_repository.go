package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// ContactRepository handles public contact form submissions.
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create stores a submission.
func (r *ContactRepository) Create(ctx context.Context, submission *gormModels.ContactSubmission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

// List returns a page of submissions, newest first, optionally filtered by
// status.
func (r *ContactRepository) List(ctx context.Context, page, limit int, status string) ([]gormModels.ContactSubmission, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.ContactSubmission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact submissions: %w", err)
	}

	var submissions []gormModels.ContactSubmission
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact submissions: %w", err)
	}

	return submissions, total, nil
}

// UpdateStatus moves a submission through the triage states.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.ContactSubmission{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update contact submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
