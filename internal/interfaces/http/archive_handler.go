package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/internal/application/usecase"
)

// ArchiveHandler consulta y restauración de registros archivados.
type ArchiveHandler struct {
	uc   *usecase.ArchiveUseCase
	errs *ErrorResponder
}

// NewArchiveHandler construye el handler.
func NewArchiveHandler(uc *usecase.ArchiveUseCase, errs *ErrorResponder) *ArchiveHandler {
	return &ArchiveHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar archivados
// @Tags         archive
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "material o stock_entry"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ArchiveListResponse
// @Router       /api/archive [get]
func (h *ArchiveHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out, err := h.uc.List(c.UserContext(), c.Query("kind"), page)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener registro archivado
// @Tags         archive
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.ArchiveRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/archive/{id} [get]
func (h *ArchiveHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar registro archivado
// @Tags         archive
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.ArchiveRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya restaurado o saldo insuficiente"
// @Router       /api/archive/{id}/restore [post]
func (h *ArchiveHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetUID(c), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}
