package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// MaxReportEntries tope de entradas incluidas en el PDF y la exportación Tally.
const MaxReportEntries = 5000

// StockUseCase casos de uso de entradas/salidas de stock.
type StockUseCase struct {
	materials repository.MaterialRepository
	stock     repository.StockEntryRepository
	tx        ports.TxRunner
	report    ports.StockReportGenerator
	tally     ports.TallyExporter
	company   string
}

// NewStockUseCase construye el caso de uso. company es el nombre que aparece en reportes y exportaciones.
func NewStockUseCase(
	materials repository.MaterialRepository,
	stock repository.StockEntryRepository,
	tx ports.TxRunner,
	report ports.StockReportGenerator,
	tally ports.TallyExporter,
	company string,
) *StockUseCase {
	return &StockUseCase{materials: materials, stock: stock, tx: tx, report: report, tally: tally, company: company}
}

// Create registra una entrada (IN) o salida (OUT). Una salida no puede dejar el saldo negativo.
func (uc *StockUseCase) Create(ctx context.Context, actor string, in dto.CreateStockEntryRequest) (*dto.StockEntryResponse, error) {
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, dto.Invalid("quantity", "debe ser mayor que 0")
	}
	if in.UnitPrice.IsNegative() {
		return nil, dto.Invalid("unitPrice", "no puede ser negativo")
	}
	entryDate := time.Now().UTC().Truncate(24 * time.Hour)
	if in.EntryDate != "" {
		d, err := time.Parse(dateLayout, in.EntryDate)
		if err != nil {
			return nil, dto.Invalid("entryDate", "formato esperado "+dateLayout)
		}
		entryDate = d
	}

	var entry *entity.StockEntry
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		m, err := repos.Materials.GetByID(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: material %s", domain.ErrNotFound, in.MaterialID)
		}
		if !m.IsActive() {
			return fmt.Errorf("%w: material archivado", domain.ErrConflict)
		}
		if in.Type == entity.StockEntryOUT {
			if err := ensureBalance(ctx, repos.Stock, m.ID, in.Quantity); err != nil {
				return err
			}
		}
		entry = &entity.StockEntry{
			ID:           uuid.New().String(),
			MaterialID:   m.ID,
			MaterialCode: m.Code,
			MaterialName: m.Name,
			Type:         in.Type,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			TotalValue:   in.Quantity.Mul(in.UnitPrice).Round(2),
			Reference:    strings.TrimSpace(in.Reference),
			Remarks:      strings.TrimSpace(in.Remarks),
			EntryDate:    entryDate,
			Status:       entity.StatusActive,
			CreatedBy:    actor,
			CreatedAt:    time.Now().UTC(),
		}
		return repos.Stock.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return toStockEntryResponse(entry), nil
}

// GetByID obtiene una entrada (activa o archivada).
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockEntryResponse, error) {
	e, err := loadEntry(ctx, uc.stock, id)
	if err != nil {
		return nil, err
	}
	return toStockEntryResponse(e), nil
}

// StockQuery filtros de listado recibidos por query string.
type StockQuery struct {
	MaterialID string
	Status     string
	From       string
	To         string
}

// List lista entradas, más recientes primero. Sin status se listan solo activas.
func (uc *StockUseCase) List(ctx context.Context, q StockQuery, page dto.PageRequest) (*dto.StockEntryListResponse, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.stock.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toStockEntryResponse(e))
	}
	return &dto.StockEntryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Summary saldo por material sobre entradas activas.
func (uc *StockUseCase) Summary(ctx context.Context) ([]dto.StockBalanceDTO, error) {
	balances, err := uc.stock.Balances(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockBalanceDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceDTO(b))
	}
	return out, nil
}

// Archive retira una entrada. Archivar un IN no puede dejar el saldo del material negativo.
func (uc *StockUseCase) Archive(ctx context.Context, actor, id, reason string) (*dto.ArchiveRecordResponse, error) {
	if err := dto.Validate(dto.ArchiveRequest{Reason: reason}); err != nil {
		return nil, err
	}
	var rec *entity.ArchiveRecord
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		e, err := loadEntry(ctx, repos.Stock, id)
		if err != nil {
			return err
		}
		if e.Status != entity.StatusActive {
			return fmt.Errorf("%w: la entrada ya está archivada", domain.ErrConflict)
		}
		if e.Type == entity.StockEntryIN {
			if err := ensureBalance(ctx, repos.Stock, e.MaterialID, e.Quantity); err != nil {
				return err
			}
		}
		snapshot, err := json.Marshal(toStockEntryResponse(e))
		if err != nil {
			return fmt.Errorf("snapshot entrada: %w", err)
		}
		if err := repos.Stock.SetStatus(ctx, e.ID, entity.StatusArchived); err != nil {
			return err
		}
		rec = newArchiveRecord(entity.ArchiveKindStockEntry, e.ID, snapshot, reason, actor)
		return repos.Archive.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return toArchiveResponse(rec), nil
}

// ReportPDF genera el reporte de stock (saldos + movimientos del rango) en PDF.
func (uc *StockUseCase) ReportPDF(ctx context.Context, actor, from, to string) ([]byte, error) {
	f, err := StockQuery{From: from, To: to}.filter()
	if err != nil {
		return nil, err
	}
	balances, err := uc.stock.Balances(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := uc.stock.List(ctx, f, MaxReportEntries, 0)
	if err != nil {
		return nil, err
	}
	return uc.report.Generate(ports.StockReport{
		Company:     uc.company,
		From:        f.From,
		To:          f.To,
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: actor,
		Balances:    balances,
		Entries:     entries,
	})
}

// ExportTallyXML exporta las entradas activas del rango al XML de importación de Tally.
func (uc *StockUseCase) ExportTallyXML(ctx context.Context, from, to string) ([]byte, error) {
	f, err := StockQuery{From: from, To: to}.filter()
	if err != nil {
		return nil, err
	}
	entries, err := uc.stock.List(ctx, f, MaxReportEntries, 0)
	if err != nil {
		return nil, err
	}
	return uc.tally.Export(uc.company, entries)
}

func (q StockQuery) filter() (repository.StockEntryFilter, error) {
	f := repository.StockEntryFilter{MaterialID: strings.TrimSpace(q.MaterialID)}
	status, err := statusFilter(q.Status)
	if err != nil {
		return f, err
	}
	f.Status = status
	if q.From != "" {
		d, err := time.Parse(dateLayout, q.From)
		if err != nil {
			return f, dto.Invalid("from", "formato esperado "+dateLayout)
		}
		f.From = d
	}
	if q.To != "" {
		d, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return f, dto.Invalid("to", "formato esperado "+dateLayout)
		}
		f.To = d
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, dto.Invalid("to", "debe ser posterior a from")
	}
	return f, nil
}

// ensureBalance falla con ErrInsufficientStock si el saldo del material es menor que qty.
func ensureBalance(ctx context.Context, stock repository.StockEntryRepository, materialID string, qty decimal.Decimal) error {
	bal, err := stock.BalanceOf(ctx, materialID)
	if err != nil {
		return err
	}
	if bal.Balance.LessThan(qty) {
		return fmt.Errorf("%w: saldo %s, requerido %s", domain.ErrInsufficientStock, bal.Balance.String(), qty.String())
	}
	return nil
}

func loadEntry(ctx context.Context, repo repository.StockEntryRepository, id string) (*entity.StockEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dto.Invalid("id", "es requerido")
	}
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func toStockEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.StockEntryResponse{
		ID:           e.ID,
		MaterialID:   e.MaterialID,
		MaterialCode: e.MaterialCode,
		MaterialName: e.MaterialName,
		Type:         e.Type,
		Quantity:     e.Quantity,
		UnitPrice:    e.UnitPrice,
		TotalValue:   e.TotalValue,
		Reference:    e.Reference,
		Remarks:      e.Remarks,
		EntryDate:    e.EntryDate,
		Status:       e.Status,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}

func toBalanceDTO(b *entity.StockBalance) dto.StockBalanceDTO {
	return dto.StockBalanceDTO{
		MaterialID:   b.MaterialID,
		MaterialCode: b.MaterialCode,
		MaterialName: b.MaterialName,
		Unit:         b.Unit,
		TotalIn:      b.TotalIn,
		TotalOut:     b.TotalOut,
		Balance:      b.Balance,
		ReorderLevel: b.ReorderLevel,
		BelowReorder: b.BelowReorder(),
	}
}
