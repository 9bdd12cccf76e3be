// Package tally serializa entradas de stock al XML de importación de Tally (Receipt / Delivery Notes).
package tally

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// Tipos de voucher de Tally para cada tipo de entrada.
const (
	VoucherReceipt  = "Receipt Note"
	VoucherDelivery = "Delivery Note"
)

var _ ports.TallyExporter = (*Exporter)(nil)

// Exporter implementa ports.TallyExporter con etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export genera un ENVELOPE de importación con un VOUCHER por entrada.
// En Tally las entradas de inventario IN son "deemed positive" con monto negativo.
func (x *Exporter) Export(company string, entries []*entity.StockEntry) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("ENVELOPE")
	header := env.CreateElement("HEADER")
	header.CreateElement("TALLYREQUEST").SetText("Import Data")

	imp := env.CreateElement("BODY").CreateElement("IMPORTDATA")
	desc := imp.CreateElement("REQUESTDESC")
	desc.CreateElement("REPORTNAME").SetText("Vouchers")
	desc.CreateElement("STATICVARIABLES").CreateElement("SVCURRENTCOMPANY").SetText(company)

	data := imp.CreateElement("REQUESTDATA")
	for _, e := range entries {
		if err := addVoucher(data, e); err != nil {
			return nil, err
		}
	}

	doc.Indent(2)
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("tally: serializar XML: %w", err)
	}
	return b, nil
}

func addVoucher(parent *etree.Element, e *entity.StockEntry) error {
	vchType, positive, amount := VoucherReceipt, "Yes", e.TotalValue.Neg()
	switch e.Type {
	case entity.StockEntryIN:
	case entity.StockEntryOUT:
		vchType, positive, amount = VoucherDelivery, "No", e.TotalValue
	default:
		return fmt.Errorf("tally: tipo de entrada desconocido %q en %s", e.Type, e.ID)
	}

	msg := parent.CreateElement("TALLYMESSAGE")
	msg.CreateAttr("xmlns:UDF", "TallyUDF")
	v := msg.CreateElement("VOUCHER")
	v.CreateAttr("VCHTYPE", vchType)
	v.CreateAttr("ACTION", "Create")
	v.CreateAttr("REMOTEID", e.ID)

	v.CreateElement("DATE").SetText(e.EntryDate.Format("20060102"))
	v.CreateElement("VOUCHERTYPENAME").SetText(vchType)
	v.CreateElement("VOUCHERNUMBER").SetText(e.ID)
	if e.Reference != "" {
		v.CreateElement("REFERENCE").SetText(e.Reference)
	}
	if e.Remarks != "" {
		v.CreateElement("NARRATION").SetText(e.Remarks)
	}

	inv := v.CreateElement("ALLINVENTORYENTRIES.LIST")
	inv.CreateElement("STOCKITEMNAME").SetText(itemName(e))
	inv.CreateElement("ISDEEMEDPOSITIVE").SetText(positive)
	inv.CreateElement("RATE").SetText(e.UnitPrice.StringFixed(2))
	inv.CreateElement("AMOUNT").SetText(amount.StringFixed(2))
	inv.CreateElement("ACTUALQTY").SetText(e.Quantity.String())
	inv.CreateElement("BILLEDQTY").SetText(e.Quantity.String())
	return nil
}

func itemName(e *entity.StockEntry) string {
	if e.MaterialName == "" {
		return e.MaterialCode
	}
	return e.MaterialCode + " " + e.MaterialName
}
