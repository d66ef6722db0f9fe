package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/vitorcpx/hrsync-worker/internal/models"
)

func TestCompanyRepository_UpsertByNaturalKey(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t))
	ctx := context.Background()

	id, err := repo.Insert(ctx, "user-1", "1430", map[string]interface{}{
		"corporate_name": "ACME Ltda",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	// Same natural key again must violate the unique index
	if _, err := repo.Insert(ctx, "user-1", "1430", nil); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}

	if err := repo.Update(ctx, id, map[string]interface{}{"corporate_name": "ACME Holding"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	company, err := repo.FindBySOCCode(ctx, "user-1", "1430")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if company.CorporateName == nil || *company.CorporateName != "ACME Holding" {
		t.Errorf("expected updated name, got %v", company.CorporateName)
	}
}

func TestCompanyRepository_OwnerIsolation(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t))
	ctx := context.Background()

	// The same provider code may exist for two different owners
	if _, err := repo.Insert(ctx, "user-1", "1430", nil); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := repo.Insert(ctx, "user-2", "1430", nil); err != nil {
		t.Fatalf("insert for second owner failed: %v", err)
	}

	mine, err := repo.FindBySOCCode(ctx, "user-1", "1430")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	theirs, err := repo.FindBySOCCode(ctx, "user-2", "1430")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if mine.ID == theirs.ID {
		t.Error("owners must not share rows")
	}

	if _, err := repo.FindBySOCCode(ctx, "user-3", "1430"); err != ErrCompanyNotFound {
		t.Errorf("expected ErrCompanyNotFound for other owner, got %v", err)
	}
}

func TestCompanyRepository_FirstByUser(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.FirstByUser(ctx, "user-1"); err != ErrCompanyNotFound {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	first, _ := repo.Insert(ctx, "user-1", "100", nil)
	_, _ = repo.Insert(ctx, "user-1", "200", nil)

	company, err := repo.FirstByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if company.ID != first {
		t.Errorf("expected oldest company %s, got %s", first, company.ID)
	}
}

func TestEmployeeRepository_FindByRegistration(t *testing.T) {
	db := newTestDB(t)
	companies := NewCompanyRepository(db)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	companyID, _ := companies.Insert(ctx, "user-1", "1430", nil)

	if _, err := repo.Insert(ctx, "user-1", "9001", companyID, map[string]interface{}{
		"registration": "EMP-42",
		"full_name":    "Maria Silva",
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	employee, err := repo.FindByRegistration(ctx, "user-1", "EMP-42")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if employee.SOCCode != "9001" || employee.CompanyID != companyID {
		t.Errorf("unexpected employee row: %+v", employee)
	}

	if _, err := repo.FindByRegistration(ctx, "user-2", "EMP-42"); err != ErrEmployeeNotFound {
		t.Errorf("expected owner-scoped lookup, got %v", err)
	}
}

func TestAbsenteeismRepository_NaturalKeyRoundtrip(t *testing.T) {
	repo := NewAbsenteeismRepository(newTestDB(t))
	ctx := context.Background()

	id, err := repo.Insert(ctx, "user-1", "EMP-42", "05/03/2024", "M54.5", map[string]interface{}{
		"days_absent": "3",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, err := repo.Insert(ctx, "user-1", "EMP-42", "05/03/2024", "M54.5", nil); err == nil {
		t.Fatal("expected duplicate natural key to fail")
	}

	if err := repo.Update(ctx, id, map[string]interface{}{"days_absent": "5"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	record, err := repo.FindByNaturalKey(ctx, "user-1", "EMP-42", "05/03/2024", "M54.5")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if record.DaysAbsent == nil || *record.DaysAbsent != "5" {
		t.Errorf("expected updated days_absent, got %v", record.DaysAbsent)
	}

	// A different ICD code on the same day is a distinct record
	if _, err := repo.Insert(ctx, "user-1", "EMP-42", "05/03/2024", "J11", nil); err != nil {
		t.Errorf("distinct ICD code must insert cleanly: %v", err)
	}
}

func TestSOCCredentialRepository_GetByUserAndType(t *testing.T) {
	db := newTestDB(t)
	repo := NewSOCCredentialRepository(db)
	ctx := context.Background()

	cred := models.SOCCredential{
		ID:              uuid.New().String(),
		UserID:          "user-1",
		Type:            models.SyncTypeEmployee,
		AccountCode:     "423",
		IntegrationCode: "25722",
		IntegrationKey:  "key",
		IncludeActive:   true,
	}
	if err := db.Create(&cred).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	loaded, err := repo.GetByUserAndType(ctx, "user-1", models.SyncTypeEmployee)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.AccountCode != "423" || !loaded.IncludeActive {
		t.Errorf("unexpected credential row: %+v", loaded)
	}

	if _, err := repo.GetByUserAndType(ctx, "user-1", models.SyncTypeCompany); err != ErrCredentialNotFound {
		t.Errorf("expected ErrCredentialNotFound, got %v", err)
	}
}
