package dto

import (
	"encoding/json"
	"time"
)

// ArchiveRecordResponse salida de un registro archivado.
type ArchiveRecordResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	RecordID   string          `json:"recordId"`
	Snapshot   json.RawMessage `json:"snapshot"`
	Reason     string          `json:"reason"`
	ArchivedBy string          `json:"archivedBy"`
	ArchivedAt time.Time       `json:"archivedAt"`
	RestoredAt *time.Time      `json:"restoredAt,omitempty"`
	RestoredBy string          `json:"restoredBy,omitempty"`
}

// ArchiveListResponse lista paginada de archivados.
type ArchiveListResponse struct {
	Items []ArchiveRecordResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
