package service

import (
	"context"

	"github.com/vitorcpx/hrsync-worker/internal/models"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

// RecordReconciler maps one external record into one idempotent entity
// write. An error covers that record only; the scheduler counts it as failed
// and moves on.
type RecordReconciler interface {
	Reconcile(ctx context.Context, userID string, rec soc.Record) error
}

// CompanyStore is the slice of the company repository the reconcilers need.
type CompanyStore interface {
	FindBySOCCode(ctx context.Context, userID, socCode string) (*models.Company, error)
	Insert(ctx context.Context, userID, socCode string, attrs map[string]interface{}) (string, error)
	Update(ctx context.Context, id string, attrs map[string]interface{}) error
	FirstByUser(ctx context.Context, userID string) (*models.Company, error)
}

type EmployeeStore interface {
	FindBySOCCode(ctx context.Context, userID, socCode string) (*models.Employee, error)
	FindByRegistration(ctx context.Context, userID, registration string) (*models.Employee, error)
	Insert(ctx context.Context, userID, socCode, companyID string, attrs map[string]interface{}) (string, error)
	Update(ctx context.Context, id, companyID string, attrs map[string]interface{}) error
}

type AbsenteeismStore interface {
	FindByNaturalKey(ctx context.Context, userID, registration, startDate, icdCode string) (*models.Absenteeism, error)
	Insert(ctx context.Context, userID, registration, startDate, icdCode string, attrs map[string]interface{}) (string, error)
	Update(ctx context.Context, id string, attrs map[string]interface{}) error
}
