package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

type AbsenteeismReconciler struct {
	records   AbsenteeismStore
	employees EmployeeStore
	companies CompanyStore
}

func NewAbsenteeismReconciler(records AbsenteeismStore, employees EmployeeStore, companies CompanyStore) *AbsenteeismReconciler {
	return &AbsenteeismReconciler{records: records, employees: employees, companies: companies}
}

// Reconcile upserts one absenteeism record by its composite natural key
// (registration, leave start date, primary ICD code). The employee reference
// is resolved best-effort by registration number; no match stores the record
// with a null employee.
//
// Company attribution uses the owner's first company. The export payload
// carries no company code, so owners managing multiple companies get every
// leave attributed to the oldest one. Known limitation.
func (r *AbsenteeismReconciler) Reconcile(ctx context.Context, userID string, rec soc.Record) error {
	registration := stringify(rec["MATRICULA_FUNC"])
	if registration == "" {
		return fmt.Errorf("absenteeism record missing MATRICULA_FUNC")
	}
	startDate := stringify(rec["DT_INICIO_ATESTADO"])
	if startDate == "" {
		return fmt.Errorf("absenteeism record missing DT_INICIO_ATESTADO")
	}
	icdCode := stringify(rec["CID_PRINCIPAL"])

	attrs := applyFieldMap(rec, absenteeismFieldMap)

	employee, err := r.employees.FindByRegistration(ctx, userID, registration)
	if err == nil {
		attrs["employee_id"] = employee.ID
	} else if !errors.Is(err, repository.ErrEmployeeNotFound) {
		log.Printf("Warning: employee lookup failed for registration %s: %v", registration, err)
	}

	company, err := r.companies.FirstByUser(ctx, userID)
	if err == nil {
		attrs["company_id"] = company.ID
	} else if !errors.Is(err, repository.ErrCompanyNotFound) {
		log.Printf("Warning: company lookup failed for user %s: %v", userID, err)
	}

	existing, err := r.records.FindByNaturalKey(ctx, userID, registration, startDate, icdCode)
	if err == nil {
		return r.records.Update(ctx, existing.ID, attrs)
	}
	if !errors.Is(err, repository.ErrAbsenteeismNotFound) {
		return err
	}

	if _, insertErr := r.records.Insert(ctx, userID, registration, startDate, icdCode, attrs); insertErr != nil {
		existing, err := r.records.FindByNaturalKey(ctx, userID, registration, startDate, icdCode)
		if err != nil {
			return insertErr
		}
		return r.records.Update(ctx, existing.ID, attrs)
	}
	return nil
}
