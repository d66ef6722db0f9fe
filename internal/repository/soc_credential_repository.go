package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitorcpx/hrsync-worker/internal/models"
	"gorm.io/gorm"
)

var ErrCredentialNotFound = errors.New("soc credential not found")

type SOCCredentialRepository struct {
	db *gorm.DB
}

func NewSOCCredentialRepository(db *gorm.DB) *SOCCredentialRepository {
	return &SOCCredentialRepository{db: db}
}

// GetByUserAndType retrieves the owner's provider credentials for one export
// type. A missing row is a fatal, reported job failure for the caller.
func (r *SOCCredentialRepository) GetByUserAndType(ctx context.Context, userID string, syncType models.SyncType) (*models.SOCCredential, error) {
	var cred models.SOCCredential
	result := r.db.WithContext(ctx).First(&cred, "user_id = ? AND type = ?", userID, syncType)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get soc credential: %w", result.Error)
	}
	return &cred, nil
}
