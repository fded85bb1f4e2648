package commerce

import "time"

// Sync run statuses.
const (
	SyncStatusStarted    = "started"
	SyncStatusInProgress = "in_progress"
	SyncStatusCompleted  = "completed"
	SyncStatusFailed     = "failed"
)

// Well-known sync IDs. Per-run import IDs are generated UUIDs.
const (
	SyncIDLatest = "latest"
)

// SyncMetadata is an advisory progress snapshot for a sync or import run.
// It is overwritten in place, never used for resumption: a crashed run is
// re-triggered from scratch.
type SyncMetadata struct {
	SyncID         string `json:"syncId" dynamodbav:"syncId"`
	Resource       string `json:"resource,omitempty" dynamodbav:"resource,omitempty"`
	Status         string `json:"status" dynamodbav:"status"`
	FilesTotal     int    `json:"files_total" dynamodbav:"files_total"`
	FilesCompleted int    `json:"files_completed" dynamodbav:"files_completed"`
	RowsProcessed  int    `json:"rows_processed" dynamodbav:"rows_processed"`
	Succeeded      int    `json:"succeeded" dynamodbav:"succeeded"`
	Failed         int    `json:"failed" dynamodbav:"failed"`
	Message        string `json:"message,omitempty" dynamodbav:"message,omitempty"`
	StartedAt      string `json:"started_at" dynamodbav:"started_at"`
	UpdatedAt      string `json:"updated_at" dynamodbav:"updated_at"`
	CompletedAt    string `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
}

// LastSyncID returns the per-resource bookmark ID, e.g. "orders_last_sync".
func LastSyncID(resource string) string {
	return resource + "_last_sync"
}

// Touch stamps UpdatedAt with the current UTC time.
func (m *SyncMetadata) Touch(now time.Time) {
	m.UpdatedAt = now.UTC().Format(time.RFC3339)
}
