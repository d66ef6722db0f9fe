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

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// FindBySOCCode retrieves a company by its provider natural key, scoped to
// the owner.
func (r *CompanyRepository) FindBySOCCode(ctx context.Context, userID, socCode string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "user_id = ? AND soc_code = ?", userID, socCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", result.Error)
	}
	return &company, nil
}

// Insert creates a new company row from mapped provider attributes and
// returns the generated id.
func (r *CompanyRepository) Insert(ctx context.Context, userID, socCode string, attrs map[string]interface{}) (string, error) {
	now := time.Now()
	cols := map[string]interface{}{
		"id":         uuid.New().String(),
		"user_id":    userID,
		"soc_code":   socCode,
		"created_at": now,
		"updated_at": now,
	}
	for col, val := range attrs {
		cols[col] = val
	}

	result := r.db.WithContext(ctx).Model(&models.Company{}).Create(cols)
	if result.Error != nil {
		return "", fmt.Errorf("failed to insert company: %w", result.Error)
	}
	return cols["id"].(string), nil
}

// Update applies mapped provider attributes to an existing company row.
func (r *CompanyRepository) Update(ctx context.Context, id string, attrs map[string]interface{}) error {
	cols := map[string]interface{}{"updated_at": time.Now()}
	for col, val := range attrs {
		cols[col] = val
	}

	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update company: %w", result.Error)
	}
	return nil
}

// FirstByUser returns the owner's oldest company row, used by absenteeism
// reconciliation for company attribution.
func (r *CompanyRepository) FirstByUser(ctx context.Context, userID string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find first company: %w", result.Error)
	}
	return &company, nil
}
