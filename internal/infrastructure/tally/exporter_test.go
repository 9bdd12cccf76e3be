package tally

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

func entry(id, typ string, qty, price string) *entity.StockEntry {
	q, p := decimal.RequireFromString(qty), decimal.RequireFromString(price)
	return &entity.StockEntry{
		ID: id, MaterialCode: "RM-001", MaterialName: "Steel rod", Type: typ,
		Quantity: q, UnitPrice: p, TotalValue: q.Mul(p), Reference: "INV-9",
		EntryDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func inventory(v *etree.Element, tag string) *etree.Element {
	return v.SelectElement("ALLINVENTORYENTRIES.LIST").SelectElement(tag)
}

func TestExporter_Export(t *testing.T) {
	b, err := NewExporter().Export("Magizh Industries", []*entity.StockEntry{
		entry("e-1", entity.StockEntryIN, "10", "5.5"),
		entry("e-2", entity.StockEntryOUT, "4", "5.5"),
	})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))

	assert.Equal(t, "Magizh Industries", doc.FindElement("//SVCURRENTCOMPANY").Text())
	vouchers := doc.FindElements("//VOUCHER")
	require.Len(t, vouchers, 2)

	in := vouchers[0]
	assert.Equal(t, VoucherReceipt, in.SelectAttrValue("VCHTYPE", ""))
	assert.Equal(t, "20260305", in.FindElement("DATE").Text())
	assert.Equal(t, "Yes", inventory(in, "ISDEEMEDPOSITIVE").Text())
	assert.Equal(t, "-55.00", inventory(in, "AMOUNT").Text())

	out := vouchers[1]
	assert.Equal(t, VoucherDelivery, out.SelectAttrValue("VCHTYPE", ""))
	assert.Equal(t, "22.00", inventory(out, "AMOUNT").Text())
	assert.Equal(t, "INV-9", out.FindElement("REFERENCE").Text())
}

func TestExporter_Vacio(t *testing.T) {
	b, err := NewExporter().Export("Magizh Industries", nil)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<REQUESTDATA/>")
}

func TestExporter_TipoDesconocido(t *testing.T) {
	_, err := NewExporter().Export("Magizh Industries", []*entity.StockEntry{entry("e-1", "MOVE", "1", "1")})
	assert.Error(t, err)
}
