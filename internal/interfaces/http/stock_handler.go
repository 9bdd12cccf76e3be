package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/usecase"
)

// StockHandler entradas y salidas de stock, saldos, reporte PDF y exportación Tally.
type StockHandler struct {
	uc   *usecase.StockUseCase
	errs *ErrorResponder
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase, errs *ErrorResponder) *StockHandler {
	return &StockHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Registrar entrada o salida
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "Movimiento"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente o material archivado"
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUID(c), in)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar entradas de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  string  false  "Filtrar por material"
// @Param        status       query  string  false  "active (default), archived o all"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockEntryListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	q := usecase.StockQuery{
		MaterialID: c.Query("material_id"),
		Status:     c.Query("status"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
	out, err := h.uc.List(c.UserContext(), q, page)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Saldos por material
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockBalanceDTO
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrada de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID de la entrada"
// @Param        body  body  dto.ArchiveRequest  false  "Motivo"
// @Success      200   {object}  dto.ArchiveRecordResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Archive(c *fiber.Ctx) error {
	reason, ok := archiveReason(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.uc.Archive(c.UserContext(), GetUID(c), c.Params("id"), reason)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/report.pdf [get]
func (h *StockHandler) ReportPDF(c *fiber.Ctx) error {
	b, err := h.uc.ReportPDF(c.UserContext(), GetUserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, attachment("stock-report", "pdf"))
	return c.Send(b)
}

// ExportTally godoc
// @Summary      Exportar entradas al XML de Tally
// @Tags         stock
// @Security     Bearer
// @Produce      application/xml
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/export/tally [get]
func (h *StockHandler) ExportTally(c *fiber.Ctx) error {
	b, err := h.uc.ExportTallyXML(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, attachment("tally-stock", "xml"))
	return c.Send(b)
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s-%s.%s"`, name, time.Now().UTC().Format("20060102"), ext)
}
