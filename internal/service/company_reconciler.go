package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

type CompanyReconciler struct {
	companies CompanyStore
}

func NewCompanyReconciler(companies CompanyStore) *CompanyReconciler {
	return &CompanyReconciler{companies: companies}
}

// Reconcile upserts one company record by its provider code. Lookup before
// write; an insert lost to a concurrent writer degrades to an update.
func (r *CompanyReconciler) Reconcile(ctx context.Context, userID string, rec soc.Record) error {
	socCode := stringify(rec["CODIGO"])
	if socCode == "" {
		return fmt.Errorf("company record missing CODIGO")
	}

	attrs := applyFieldMap(rec, companyFieldMap)

	existing, err := r.companies.FindBySOCCode(ctx, userID, socCode)
	if err == nil {
		return r.companies.Update(ctx, existing.ID, attrs)
	}
	if !errors.Is(err, repository.ErrCompanyNotFound) {
		return err
	}

	if _, insertErr := r.companies.Insert(ctx, userID, socCode, attrs); insertErr != nil {
		// Re-check: a sibling batch may have created the row between the
		// lookup and the insert.
		existing, err := r.companies.FindBySOCCode(ctx, userID, socCode)
		if err != nil {
			return insertErr
		}
		return r.companies.Update(ctx, existing.ID, attrs)
	}
	return nil
}
