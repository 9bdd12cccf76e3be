package ports

import (
	"time"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// StockReport datos de entrada del reporte de stock.
type StockReport struct {
	Company     string
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	GeneratedBy string
	Balances    []*entity.StockBalance
	Entries     []*entity.StockEntry
}

// StockReportGenerator genera el reporte de stock en PDF.
type StockReportGenerator interface {
	Generate(r StockReport) ([]byte, error)
}

// TallyExporter serializa entradas de stock al XML de importación de Tally.
type TallyExporter interface {
	Export(company string, entries []*entity.StockEntry) ([]byte, error)
}
