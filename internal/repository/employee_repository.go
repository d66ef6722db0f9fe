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

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindBySOCCode retrieves an employee by its provider natural key, scoped to
// the owner.
func (r *EmployeeRepository) FindBySOCCode(ctx context.Context, userID, socCode string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "user_id = ? AND soc_code = ?", userID, socCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", result.Error)
	}
	return &employee, nil
}

// FindByRegistration retrieves an employee by registration number, scoped to
// the owner. Used for best-effort absenteeism matching.
func (r *EmployeeRepository) FindByRegistration(ctx context.Context, userID, registration string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "user_id = ? AND registration = ?", userID, registration)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee by registration: %w", result.Error)
	}
	return &employee, nil
}

// Insert creates a new employee row from mapped provider attributes and
// returns the generated id. companyID satisfies the FK to companies.
func (r *EmployeeRepository) Insert(ctx context.Context, userID, socCode, companyID string, attrs map[string]interface{}) (string, error) {
	now := time.Now()
	cols := map[string]interface{}{
		"id":         uuid.New().String(),
		"user_id":    userID,
		"soc_code":   socCode,
		"company_id": companyID,
		"created_at": now,
		"updated_at": now,
	}
	for col, val := range attrs {
		cols[col] = val
	}

	result := r.db.WithContext(ctx).Model(&models.Employee{}).Create(cols)
	if result.Error != nil {
		return "", fmt.Errorf("failed to insert employee: %w", result.Error)
	}
	return cols["id"].(string), nil
}

// Update applies mapped provider attributes to an existing employee row.
func (r *EmployeeRepository) Update(ctx context.Context, id, companyID string, attrs map[string]interface{}) error {
	cols := map[string]interface{}{
		"company_id": companyID,
		"updated_at": time.Now(),
	}
	for col, val := range attrs {
		cols[col] = val
	}

	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update employee: %w", result.Error)
	}
	return nil
}
