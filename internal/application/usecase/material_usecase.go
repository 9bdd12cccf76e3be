package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

// MaterialUseCase casos de uso del maestro de materiales. Los materiales no se borran: se archivan.
type MaterialUseCase struct {
	repo repository.MaterialRepository
	tx   ports.TxRunner
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, tx ports.TxRunner) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, tx: tx}
}

// Create crea un material activo. El código es único (sin distinguir mayúsculas).
func (uc *MaterialUseCase) Create(ctx context.Context, actor string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.ReorderLevel.IsNegative() {
		return nil, dto.Invalid("reorderLevel", "no puede ser negativo")
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el código %s ya existe", domain.ErrConflict, in.Code)
	}
	now := time.Now().UTC()
	m := &entity.Material{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		Description:  in.Description,
		Unit:         strings.TrimSpace(in.Unit),
		Category:     in.Category,
		HSNCode:      in.HSNCode,
		ReorderLevel: in.ReorderLevel,
		Status:       entity.StatusActive,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// GetByID obtiene un material (activo o archivado).
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// List lista materiales. status vacío = activos.
func (uc *MaterialUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.MaterialListResponse, error) {
	status, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza parcialmente un material activo. El código no se modifica.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	m, err := uc.load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, fmt.Errorf("%w: material archivado", domain.ErrConflict)
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Unit != nil {
		m.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.HSNCode != nil {
		m.HSNCode = *in.HSNCode
	}
	if in.ReorderLevel != nil {
		if in.ReorderLevel.IsNegative() {
			return nil, dto.Invalid("reorderLevel", "no puede ser negativo")
		}
		m.ReorderLevel = *in.ReorderLevel
	}
	m.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Archive retira el material y guarda su snapshot en el archivo.
func (uc *MaterialUseCase) Archive(ctx context.Context, actor, id, reason string) (*dto.ArchiveRecordResponse, error) {
	if err := dto.Validate(dto.ArchiveRequest{Reason: reason}); err != nil {
		return nil, err
	}
	var rec *entity.ArchiveRecord
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		m, err := uc.load(ctx, repos.Materials, id)
		if err != nil {
			return err
		}
		if !m.IsActive() {
			return fmt.Errorf("%w: el material ya está archivado", domain.ErrConflict)
		}
		snapshot, err := json.Marshal(toMaterialResponse(m))
		if err != nil {
			return fmt.Errorf("snapshot material: %w", err)
		}
		if err := repos.Materials.SetStatus(ctx, m.ID, entity.StatusArchived); err != nil {
			return err
		}
		rec = newArchiveRecord(entity.ArchiveKindMaterial, m.ID, snapshot, reason, actor)
		return repos.Archive.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return toArchiveResponse(rec), nil
}

func (uc *MaterialUseCase) load(ctx context.Context, repo repository.MaterialRepository, id string) (*entity.Material, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dto.Invalid("id", "es requerido")
	}
	m, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func statusFilter(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", entity.StatusActive:
		return entity.StatusActive, nil
	case entity.StatusArchived:
		return entity.StatusArchived, nil
	case "all":
		return "", nil
	default:
		return "", dto.Invalid("status", "debe ser uno de: active archived all")
	}
}

func newArchiveRecord(kind, recordID string, snapshot []byte, reason, actor string) *entity.ArchiveRecord {
	return &entity.ArchiveRecord{
		ID:         uuid.New().String(),
		Kind:       kind,
		RecordID:   recordID,
		Snapshot:   snapshot,
		Reason:     strings.TrimSpace(reason),
		ArchivedBy: actor,
		ArchivedAt: time.Now().UTC(),
	}
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		Unit:         m.Unit,
		Category:     m.Category,
		HSNCode:      m.HSNCode,
		ReorderLevel: m.ReorderLevel,
		Status:       m.Status,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
