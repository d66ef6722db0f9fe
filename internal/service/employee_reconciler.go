package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

type EmployeeReconciler struct {
	employees EmployeeStore
	companies CompanyStore
}

func NewEmployeeReconciler(employees EmployeeStore, companies CompanyStore) *EmployeeReconciler {
	return &EmployeeReconciler{employees: employees, companies: companies}
}

// Reconcile upserts one employee record by its provider code. When the
// referenced company does not exist yet for this owner, a minimal
// placeholder company is synthesized first so the foreign key never fails
// the record.
func (r *EmployeeReconciler) Reconcile(ctx context.Context, userID string, rec soc.Record) error {
	socCode := stringify(rec["CODIGO"])
	if socCode == "" {
		return fmt.Errorf("employee record missing CODIGO")
	}

	companyCode := stringify(rec["CODIGOEMPRESA"])
	if companyCode == "" {
		return fmt.Errorf("employee record missing CODIGOEMPRESA")
	}

	companyID, err := r.ensureCompany(ctx, userID, companyCode, stringify(rec["NOMEEMPRESA"]))
	if err != nil {
		return fmt.Errorf("failed to resolve company %s: %w", companyCode, err)
	}

	attrs := applyFieldMap(rec, employeeFieldMap)

	existing, err := r.employees.FindBySOCCode(ctx, userID, socCode)
	if err == nil {
		return r.employees.Update(ctx, existing.ID, companyID, attrs)
	}
	if !errors.Is(err, repository.ErrEmployeeNotFound) {
		return err
	}

	if _, insertErr := r.employees.Insert(ctx, userID, socCode, companyID, attrs); insertErr != nil {
		existing, err := r.employees.FindBySOCCode(ctx, userID, socCode)
		if err != nil {
			return insertErr
		}
		return r.employees.Update(ctx, existing.ID, companyID, attrs)
	}
	return nil
}

// ensureCompany returns the id of the owner's company with the given
// provider code, creating a placeholder row when missing. Placeholder
// creation re-checks after a failed insert so concurrent reconcilers settle
// on one row.
func (r *EmployeeReconciler) ensureCompany(ctx context.Context, userID, companyCode, companyName string) (string, error) {
	company, err := r.companies.FindBySOCCode(ctx, userID, companyCode)
	if err == nil {
		return company.ID, nil
	}
	if !errors.Is(err, repository.ErrCompanyNotFound) {
		return "", err
	}

	if companyName == "" {
		companyName = "Empresa " + companyCode
	}
	attrs := map[string]interface{}{
		"short_name":     companyName,
		"corporate_name": companyName,
	}

	id, insertErr := r.companies.Insert(ctx, userID, companyCode, attrs)
	if insertErr == nil {
		return id, nil
	}

	company, err = r.companies.FindBySOCCode(ctx, userID, companyCode)
	if err != nil {
		return "", insertErr
	}
	return company.ID, nil
}
