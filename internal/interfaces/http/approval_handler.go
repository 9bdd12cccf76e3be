package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/application/dto"
)

// ApprovalHandler rutas de administración de usuarios (solo admin).
type ApprovalHandler struct {
	uc     *auth.ApprovalUseCase
	errs   *ErrorResponder
	events AuthEventRecorder
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *auth.ApprovalUseCase, errs *ErrorResponder, events AuthEventRecorder) *ApprovalHandler {
	if events == nil {
		events = nopRecorder{}
	}
	return &ApprovalHandler{uc: uc, errs: errs, events: events}
}

// ListPending godoc
// @Summary      Usuarios pendientes de aprobación
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/auth/pending [get]
func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out, err := h.uc.ListPending(c.UserContext(), page)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// ListUsers godoc
// @Summary      Todos los usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/auth/users [get]
func (h *ApprovalHandler) ListUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out, err := h.uc.ListUsers(c.UserContext(), page)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar usuario
// @Description  Idempotente: aprobar dos veces no cambia approvedAt.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "uid del usuario"
// @Success      200  {object}  dto.ApprovalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/approve/{id} [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetUID(c), c.Params("id"))
	h.events.AuthEvent("approve", err)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "uid del usuario"
// @Success      200  {object}  dto.ApprovalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/reject/{id} [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	out, err := h.uc.Reject(c.UserContext(), GetUID(c), c.Params("id"))
	h.events.AuthEvent("reject", err)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// parsePage lee limit/offset del query string.
func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, dto.Invalid("limit", "debe ser numérico")
	}
	if err := dto.Validate(page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}
