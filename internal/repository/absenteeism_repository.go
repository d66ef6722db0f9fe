package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vitorcpx/hrsync-worker/internal/models"
	"gorm.io/gorm"
)

var ErrAbsenteeismNotFound = errors.New("absenteeism record not found")

type AbsenteeismRepository struct {
	db *gorm.DB
}

func NewAbsenteeismRepository(db *gorm.DB) *AbsenteeismRepository {
	return &AbsenteeismRepository{db: db}
}

// FindByNaturalKey retrieves an absenteeism record by its composite natural
// key (registration, leave start date, primary ICD code), scoped to the
// owner.
func (r *AbsenteeismRepository) FindByNaturalKey(ctx context.Context, userID, registration, startDate, icdCode string) (*models.Absenteeism, error) {
	var record models.Absenteeism
	result := r.db.WithContext(ctx).First(&record,
		"user_id = ? AND employee_registration = ? AND start_date = ? AND icd_code = ?",
		userID, registration, startDate, icdCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenteeismNotFound
		}
		return nil, fmt.Errorf("failed to find absenteeism record: %w", result.Error)
	}
	return &record, nil
}

// Insert creates a new absenteeism row from mapped provider attributes.
func (r *AbsenteeismRepository) Insert(ctx context.Context, userID, registration, startDate, icdCode string, attrs map[string]interface{}) (string, error) {
	now := time.Now()
	cols := map[string]interface{}{
		"id":                    uuid.New().String(),
		"user_id":               userID,
		"employee_registration": registration,
		"start_date":            startDate,
		"icd_code":              icdCode,
		"created_at":            now,
		"updated_at":            now,
	}
	for col, val := range attrs {
		cols[col] = val
	}

	result := r.db.WithContext(ctx).Model(&models.Absenteeism{}).Create(cols)
	if result.Error != nil {
		return "", fmt.Errorf("failed to insert absenteeism record: %w", result.Error)
	}
	return cols["id"].(string), nil
}

// Update applies mapped provider attributes to an existing absenteeism row.
func (r *AbsenteeismRepository) Update(ctx context.Context, id string, attrs map[string]interface{}) error {
	cols := map[string]interface{}{"updated_at": time.Now()}
	for col, val := range attrs {
		cols[col] = val
	}

	result := r.db.WithContext(ctx).Model(&models.Absenteeism{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update absenteeism record: %w", result.Error)
	}
	return nil
}
