package models

import (
	"fmt"
	"time"
)

type SyncJobStatus string

const (
	SyncStatusPending    SyncJobStatus = "pending"
	SyncStatusInProgress SyncJobStatus = "in_progress"
	SyncStatusCompleted  SyncJobStatus = "completed"
	SyncStatusError      SyncJobStatus = "error"
	SyncStatusCancelled  SyncJobStatus = "cancelled"
)

// IsTerminal reports whether the status is final. Terminal jobs never
// transition again.
func (s SyncJobStatus) IsTerminal() bool {
	return s == SyncStatusCompleted || s == SyncStatusError || s == SyncStatusCancelled
}

// TerminalStatuses is the set of final job statuses, usable directly in
// WHERE ... IN clauses.
var TerminalStatuses = []SyncJobStatus{SyncStatusCompleted, SyncStatusError, SyncStatusCancelled}

// ActiveStatuses is the complement of TerminalStatuses.
var ActiveStatuses = []SyncJobStatus{SyncStatusPending, SyncStatusInProgress}

type SyncType string

const (
	SyncTypeCompany     SyncType = "company"
	SyncTypeEmployee    SyncType = "employee"
	SyncTypeAbsenteeism SyncType = "absenteeism"
)

// ParseSyncType validates a caller-provided sync type string.
func ParseSyncType(s string) (SyncType, error) {
	switch SyncType(s) {
	case SyncTypeCompany, SyncTypeEmployee, SyncTypeAbsenteeism:
		return SyncType(s), nil
	}
	return "", fmt.Errorf("unsupported sync type %q", s)
}

// SyncJob is one invocation of the synchronization pipeline for one entity
// type and one owner. Rows live in sync_logs and are the single source of
// truth for progress, status and cancellation.
type SyncJob struct {
	ID               string        `gorm:"column:id;primaryKey" json:"id"`
	Type             SyncType      `gorm:"column:type" json:"type"`
	Status           SyncJobStatus `gorm:"column:status;index" json:"status"`
	UserID           string        `gorm:"column:user_id;index" json:"user_id"`
	Message          string        `gorm:"column:message" json:"message"`
	ErrorDetails     *string       `gorm:"column:error_details" json:"error_details,omitempty"`
	TotalRecords     *int          `gorm:"column:total_records" json:"total_records,omitempty"`
	ProcessedRecords int           `gorm:"column:processed_records" json:"processed_records"`
	Batch            *int          `gorm:"column:batch" json:"batch,omitempty"`
	TotalBatches     *int          `gorm:"column:total_batches" json:"total_batches,omitempty"`
	ParentID         *string       `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	StartedAt        time.Time     `gorm:"column:started_at" json:"started_at"`
	CompletedAt      *time.Time    `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SyncJob) TableName() string {
	return "sync_logs"
}
