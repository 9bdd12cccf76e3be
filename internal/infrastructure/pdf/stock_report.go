// Package pdf genera el reporte de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + título   │  Período + fecha de emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDOS: Código | Material | Unidad | IN | OUT | Saldo       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS: Fecha | Tipo | Material | Cant | P.Unit | Valor│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: generado por                                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

const dateLayout = "02/01/2006"

var _ ports.StockReportGenerator = (*StockReportGenerator)(nil)

// StockReportGenerator implementa ports.StockReportGenerator con Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// Generate arma el PDF y devuelve sus bytes.
func (g *StockReportGenerator) Generate(r ports.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock Report", true).
		WithAuthor(r.Company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("STOCK BALANCES"))
	m.AddRows(balanceHeaderRow())
	m.AddRows(balanceRows(r.Balances)...)

	m.AddRows(line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle(fmt.Sprintf("STOCK ENTRIES (%d)", len(r.Entries))))
	m.AddRows(entryHeaderRow())
	m.AddRows(entryRows(r.Entries)...)
	m.AddRows(totalsRow(r.Entries))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generated by "+nonEmpty(r.GeneratedBy, "system")+" on "+r.GeneratedAt.Format("02/01/2006 15:04 MST"),
			props.Text{Size: 7, Color: colorGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r ports.StockReport) core.Row {
	period := "All dates"
	if !r.From.IsZero() || !r.To.IsZero() {
		period = fmt.Sprintf("%s to %s", dateOr(r.From, "start"), dateOr(r.To, "today"))
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(r.Company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Stock Report", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Period: "+period, props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New("Issued: "+r.GeneratedAt.Format(dateLayout), props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func headerCells(labels []string, sizes []int, aligns []align.Type) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i], Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(cols...)
}

func balanceHeaderRow() core.Row {
	return headerCells(
		[]string{"Code", "Material", "Unit", "In", "Out", "Balance"},
		[]int{2, 4, 1, 2, 1, 2},
		[]align.Type{align.Left, align.Left, align.Center, align.Right, align.Right, align.Right},
	)
}

// balanceRows resalta en rojo los saldos en o bajo el nivel de reorden.
func balanceRows(balances []*entity.StockBalance) []core.Row {
	if len(balances) == 0 {
		return []core.Row{emptyRow("No materials")}
	}
	out := make([]core.Row, 0, len(balances))
	for _, b := range balances {
		balanceProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if b.BelowReorder() {
			balanceProps.Style = fontstyle.Bold
			balanceProps.Color = colorAlert
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(b.MaterialCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(b.MaterialName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(b.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatQty(b.TotalIn), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatQty(b.TotalOut), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQty(b.Balance), balanceProps)),
		))
	}
	return out
}

func entryHeaderRow() core.Row {
	return headerCells(
		[]string{"Date", "Type", "Material", "Qty", "Unit price", "Value"},
		[]int{2, 1, 4, 1, 2, 2},
		[]align.Type{align.Left, align.Center, align.Left, align.Right, align.Right, align.Right},
	)
}

func entryRows(entries []*entity.StockEntry) []core.Row {
	if len(entries) == 0 {
		return []core.Row{emptyRow("No entries in the period")}
	}
	out := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		typeProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if e.Type == entity.StockEntryOUT {
			typeProps.Color = colorAlert
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(e.EntryDate.Format(dateLayout), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(e.Type, typeProps)),
			col.New(4).Add(text.New(e.MaterialCode+" "+e.MaterialName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatQty(e.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(e.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(e.TotalValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalsRow valor de entradas IN y OUT del período.
func totalsRow(entries []*entity.StockEntry) core.Row {
	in, out := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Type == entity.StockEntryOUT {
			out = out.Add(e.TotalValue)
		} else {
			in = in.Add(e.TotalValue)
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Value in:"), label("Value out:")),
		col.New(3).Add(value(formatMoney(in)), value(formatMoney(out))),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func dateOr(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Format(dateLayout)
}

// formatQty cantidad sin ceros de relleno: 12.500 → "12.5".
func formatQty(d decimal.Decimal) string {
	return d.String()
}

// formatMoney dos decimales con separador de miles: 1234567.5 → "1,234,567.50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
