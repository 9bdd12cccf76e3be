package firebase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// Colecciones de Firestore.
const (
	usersCollection      = "users"
	materialsCollection  = "materials"
	stockEntryCollection = "stockEntries"
	archiveCollection    = "archive"
)

// Los decimales se guardan como string para no perder precisión en float64.

type userDoc struct {
	FirstName    string     `firestore:"firstName"`
	LastName     string     `firestore:"lastName"`
	FatherName   string     `firestore:"fatherName"`
	DOB          string     `firestore:"dob"`
	Email        string     `firestore:"email"`
	UserID       string     `firestore:"userId"`
	PasswordHash string     `firestore:"passwordHash"`
	Role         string     `firestore:"role"`
	IsActive     bool       `firestore:"isActive"`
	IsApproved   bool       `firestore:"isApproved"`
	CreatedAt    time.Time  `firestore:"createdAt"`
	ApprovedAt   *time.Time `firestore:"approvedAt"`
	ApprovedBy   string     `firestore:"approvedBy"`
	UpdatedAt    time.Time  `firestore:"updatedAt"`
}

func newUserDoc(u *entity.User) userDoc {
	return userDoc{
		FirstName: u.FirstName, LastName: u.LastName, FatherName: u.FatherName, DOB: u.DOB,
		Email: u.Email, UserID: u.UserID, PasswordHash: u.PasswordHash, Role: u.Role,
		IsActive: u.IsActive, IsApproved: u.IsApproved, CreatedAt: u.CreatedAt,
		ApprovedAt: u.ApprovedAt, ApprovedBy: u.ApprovedBy, UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) toEntity(uid string) *entity.User {
	return &entity.User{
		UID: uid, FirstName: d.FirstName, LastName: d.LastName, FatherName: d.FatherName, DOB: d.DOB,
		Email: d.Email, UserID: d.UserID, PasswordHash: d.PasswordHash, Role: d.Role,
		IsActive: d.IsActive, IsApproved: d.IsApproved, CreatedAt: d.CreatedAt,
		ApprovedAt: d.ApprovedAt, ApprovedBy: d.ApprovedBy, UpdatedAt: d.UpdatedAt,
	}
}

type materialDoc struct {
	Code         string    `firestore:"code"`
	Name         string    `firestore:"name"`
	Description  string    `firestore:"description"`
	Unit         string    `firestore:"unit"`
	Category     string    `firestore:"category"`
	HSNCode      string    `firestore:"hsnCode"`
	ReorderLevel string    `firestore:"reorderLevel"`
	Status       string    `firestore:"status"`
	CreatedBy    string    `firestore:"createdBy"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func newMaterialDoc(m *entity.Material) materialDoc {
	return materialDoc{
		Code: m.Code, Name: m.Name, Description: m.Description, Unit: m.Unit, Category: m.Category,
		HSNCode: m.HSNCode, ReorderLevel: m.ReorderLevel.String(), Status: m.Status,
		CreatedBy: m.CreatedBy, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func (d materialDoc) toEntity(id string) (*entity.Material, error) {
	reorder, err := parseDecimal("reorderLevel", d.ReorderLevel)
	if err != nil {
		return nil, err
	}
	return &entity.Material{
		ID: id, Code: d.Code, Name: d.Name, Description: d.Description, Unit: d.Unit,
		Category: d.Category, HSNCode: d.HSNCode, ReorderLevel: reorder, Status: d.Status,
		CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

type stockEntryDoc struct {
	MaterialID   string    `firestore:"materialId"`
	MaterialCode string    `firestore:"materialCode"`
	MaterialName string    `firestore:"materialName"`
	Type         string    `firestore:"type"`
	Quantity     string    `firestore:"quantity"`
	UnitPrice    string    `firestore:"unitPrice"`
	TotalValue   string    `firestore:"totalValue"`
	Reference    string    `firestore:"reference"`
	Remarks      string    `firestore:"remarks"`
	EntryDate    time.Time `firestore:"entryDate"`
	Status       string    `firestore:"status"`
	CreatedBy    string    `firestore:"createdBy"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func newStockEntryDoc(e *entity.StockEntry) stockEntryDoc {
	return stockEntryDoc{
		MaterialID: e.MaterialID, MaterialCode: e.MaterialCode, MaterialName: e.MaterialName,
		Type: e.Type, Quantity: e.Quantity.String(), UnitPrice: e.UnitPrice.String(),
		TotalValue: e.TotalValue.String(), Reference: e.Reference, Remarks: e.Remarks,
		EntryDate: e.EntryDate, Status: e.Status, CreatedBy: e.CreatedBy, CreatedAt: e.CreatedAt,
	}
}

func (d stockEntryDoc) toEntity(id string) (*entity.StockEntry, error) {
	qty, err := parseDecimal("quantity", d.Quantity)
	if err != nil {
		return nil, err
	}
	price, err := parseDecimal("unitPrice", d.UnitPrice)
	if err != nil {
		return nil, err
	}
	total, err := parseDecimal("totalValue", d.TotalValue)
	if err != nil {
		return nil, err
	}
	return &entity.StockEntry{
		ID: id, MaterialID: d.MaterialID, MaterialCode: d.MaterialCode, MaterialName: d.MaterialName,
		Type: d.Type, Quantity: qty, UnitPrice: price, TotalValue: total, Reference: d.Reference,
		Remarks: d.Remarks, EntryDate: d.EntryDate, Status: d.Status, CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
	}, nil
}

type archiveDoc struct {
	Kind       string     `firestore:"kind"`
	RecordID   string     `firestore:"recordId"`
	Snapshot   string     `firestore:"snapshot"`
	Reason     string     `firestore:"reason"`
	ArchivedBy string     `firestore:"archivedBy"`
	ArchivedAt time.Time  `firestore:"archivedAt"`
	RestoredAt *time.Time `firestore:"restoredAt"`
	RestoredBy string     `firestore:"restoredBy"`
}

func newArchiveDoc(a *entity.ArchiveRecord) archiveDoc {
	return archiveDoc{
		Kind: a.Kind, RecordID: a.RecordID, Snapshot: string(a.Snapshot), Reason: a.Reason,
		ArchivedBy: a.ArchivedBy, ArchivedAt: a.ArchivedAt, RestoredAt: a.RestoredAt, RestoredBy: a.RestoredBy,
	}
}

func (d archiveDoc) toEntity(id string) *entity.ArchiveRecord {
	return &entity.ArchiveRecord{
		ID: id, Kind: d.Kind, RecordID: d.RecordID, Snapshot: json.RawMessage(d.Snapshot), Reason: d.Reason,
		ArchivedBy: d.ArchivedBy, ArchivedAt: d.ArchivedAt, RestoredAt: d.RestoredAt, RestoredBy: d.RestoredBy,
	}
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("firestore: campo %s inválido: %w", field, err)
	}
	return d, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// writeErr traduce errores de escritura de Firestore a errores de dominio.
func writeErr(op string, err error) error {
	switch status.Code(err) {
	case codes.AlreadyExists, codes.Aborted:
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, op, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
