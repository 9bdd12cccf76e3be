package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

// ArchiveUseCase consulta y restauración de registros archivados.
type ArchiveUseCase struct {
	repo repository.ArchiveRepository
	tx   ports.TxRunner
}

// NewArchiveUseCase construye el caso de uso.
func NewArchiveUseCase(repo repository.ArchiveRepository, tx ports.TxRunner) *ArchiveUseCase {
	return &ArchiveUseCase{repo: repo, tx: tx}
}

// List lista archivados, más recientes primero. kind vacío = todos.
func (uc *ArchiveUseCase) List(ctx context.Context, kind string, page dto.PageRequest) (*dto.ArchiveListResponse, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "", entity.ArchiveKindMaterial, entity.ArchiveKindStockEntry:
	default:
		return nil, dto.Invalid("kind", "debe ser uno de: material stock_entry")
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, kind, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArchiveRecordResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArchiveResponse(a))
	}
	return &dto.ArchiveListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetByID obtiene un registro archivado.
func (uc *ArchiveUseCase) GetByID(ctx context.Context, id string) (*dto.ArchiveRecordResponse, error) {
	a, err := loadArchive(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return toArchiveResponse(a), nil
}

// Restore reactiva el material o la entrada archivada. Restaurar dos veces es ErrConflict.
func (uc *ArchiveUseCase) Restore(ctx context.Context, actor, id string) (*dto.ArchiveRecordResponse, error) {
	var rec *entity.ArchiveRecord
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		a, err := loadArchive(ctx, repos.Archive, id)
		if err != nil {
			return err
		}
		if a.IsRestored() {
			return fmt.Errorf("%w: el registro ya fue restaurado", domain.ErrConflict)
		}
		switch a.Kind {
		case entity.ArchiveKindMaterial:
			err = restoreMaterial(ctx, repos, a.RecordID)
		case entity.ArchiveKindStockEntry:
			err = restoreStockEntry(ctx, repos, a.RecordID)
		default:
			err = fmt.Errorf("tipo de archivo desconocido %q", a.Kind)
		}
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		a.RestoredAt = &now
		a.RestoredBy = actor
		if err := repos.Archive.MarkRestored(ctx, a); err != nil {
			return err
		}
		rec = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toArchiveResponse(rec), nil
}

func restoreMaterial(ctx context.Context, repos ports.TxRepos, id string) error {
	m, err := repos.Materials.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
	}
	if m.IsActive() {
		return fmt.Errorf("%w: el material ya está activo", domain.ErrConflict)
	}
	return repos.Materials.SetStatus(ctx, id, entity.StatusActive)
}

// Una salida restaurada vuelve a descontar saldo: se valida igual que al crearla.
func restoreStockEntry(ctx context.Context, repos ports.TxRepos, id string) error {
	e, err := repos.Stock.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
	}
	if e.Status == entity.StatusActive {
		return fmt.Errorf("%w: la entrada ya está activa", domain.ErrConflict)
	}
	m, err := repos.Materials.GetByID(ctx, e.MaterialID)
	if err != nil {
		return err
	}
	if m == nil || !m.IsActive() {
		return fmt.Errorf("%w: el material de la entrada está archivado", domain.ErrConflict)
	}
	if e.Type == entity.StockEntryOUT {
		if err := ensureBalance(ctx, repos.Stock, e.MaterialID, e.Quantity); err != nil {
			return err
		}
	}
	return repos.Stock.SetStatus(ctx, id, entity.StatusActive)
}

func loadArchive(ctx context.Context, repo repository.ArchiveRepository, id string) (*entity.ArchiveRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dto.Invalid("id", "es requerido")
	}
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func toArchiveResponse(a *entity.ArchiveRecord) *dto.ArchiveRecordResponse {
	if a == nil {
		return nil
	}
	return &dto.ArchiveRecordResponse{
		ID:         a.ID,
		Kind:       a.Kind,
		RecordID:   a.RecordID,
		Snapshot:   a.Snapshot,
		Reason:     a.Reason,
		ArchivedBy: a.ArchivedBy,
		ArchivedAt: a.ArchivedAt,
		RestoredAt: a.RestoredAt,
		RestoredBy: a.RestoredBy,
	}
}
