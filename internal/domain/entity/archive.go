package entity

import (
	"encoding/json"
	"time"
)

// Tipos de registro archivable.
const (
	ArchiveKindMaterial   = "material"
	ArchiveKindStockEntry = "stock_entry"
)

// ArchiveRecord es el retiro lógico de un material o entrada de stock.
// Snapshot guarda el registro tal como estaba al archivarlo.
type ArchiveRecord struct {
	ID         string
	Kind       string
	RecordID   string
	Snapshot   json.RawMessage
	Reason     string
	ArchivedBy string
	ArchivedAt time.Time
	RestoredAt *time.Time
	RestoredBy string
}

// IsRestored indica si el registro ya fue restaurado.
func (a *ArchiveRecord) IsRestored() bool {
	return a.RestoredAt != nil
}
