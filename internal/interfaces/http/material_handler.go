package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/usecase"
)

// MaterialHandler maestro de materiales (protegido; archivar solo admin).
type MaterialHandler struct {
	uc   *usecase.MaterialUseCase
	errs *ErrorResponder
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *usecase.MaterialUseCase, errs *ErrorResponder) *MaterialHandler {
	return &MaterialHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Crear material
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos del material"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/master [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
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
// @Summary      Listar materiales
// @Tags         master
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active (default), archived o all"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MaterialListResponse
// @Router       /api/master [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out, err := h.uc.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener material
// @Tags         master
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/master/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar material
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del material"
// @Param        body  body  dto.UpdateMaterialRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/master/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar material
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID del material"
// @Param        body  body  dto.ArchiveRequest  false  "Motivo"
// @Success      200   {object}  dto.ArchiveRecordResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/master/{id} [delete]
func (h *MaterialHandler) Archive(c *fiber.Ctx) error {
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

// archiveReason lee el motivo del body (opcional) o de ?reason=.
func archiveReason(c *fiber.Ctx) (string, bool) {
	if len(c.Body()) == 0 {
		return c.Query("reason"), true
	}
	var in dto.ArchiveRequest
	if err := c.BodyParser(&in); err != nil {
		return "", false
	}
	return in.Reason, true
}
