package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/application/dto"
)

// AuthEventRecorder cuenta eventos de autenticación (metrics.Metrics).
type AuthEventRecorder interface {
	AuthEvent(event string, err error)
}

type nopRecorder struct{}

func (nopRecorder) AuthEvent(string, error) {}

// AuthHandler maneja registro, login y perfil propio.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	errs   *ErrorResponder
	events AuthEventRecorder
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, errs *ErrorResponder, events AuthEventRecorder) *AuthHandler {
	if events == nil {
		events = nopRecorder{}
	}
	return &AuthHandler{uc: uc, errs: errs, events: events}
}

// Signup godoc
// @Summary      Registrar empleado
// @Description  Genera identificador y contraseña. La cuenta queda pendiente de aprobación.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "firstName, lastName, fatherName, dob, email"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Signup(c.UserContext(), in)
	h.events.AuthEvent("signup", err)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "identifier (o email) y password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	h.events.AuthEvent("login", err)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUID(c))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(out)
}
