package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"999.5":     "999.50",
		"1000":      "1,000.00",
		"1234567.5": "1,234,567.50",
		"-2500.125": "-2,500.13",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestDateOr(t *testing.T) {
	assert.Equal(t, "start", dateOr(time.Time{}, "start"))
	assert.Equal(t, "01/03/2026", dateOr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "start"))
}

func TestStockReportGenerator_Generate(t *testing.T) {
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)
	r := ports.StockReport{
		Company:     "Magizh Industries",
		From:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:          now,
		GeneratedAt: now,
		GeneratedBy: "magizhsa1507",
		Balances: []*entity.StockBalance{{
			MaterialID: "m-1", MaterialCode: "RM-001", MaterialName: "Steel rod", Unit: "kg",
			TotalIn: decimal.NewFromInt(100), TotalOut: decimal.NewFromInt(95), Balance: decimal.NewFromInt(5),
			ReorderLevel: decimal.NewFromInt(10),
		}},
		Entries: []*entity.StockEntry{{
			ID: "e-1", MaterialCode: "RM-001", MaterialName: "Steel rod", Type: entity.StockEntryIN,
			Quantity: decimal.NewFromInt(100), UnitPrice: decimal.RequireFromString("55.5"),
			TotalValue: decimal.RequireFromString("5550"), EntryDate: now,
		}},
	}

	b, err := NewStockReportGenerator().Generate(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestStockReportGenerator_SinDatos(t *testing.T) {
	b, err := NewStockReportGenerator().Generate(ports.StockReport{Company: "Magizh Industries", GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}
