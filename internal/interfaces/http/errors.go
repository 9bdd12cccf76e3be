package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeMissingRole       = "MISSING_ROLE"
)

const genericInternalMessage = "error interno"

// ErrorResponder traduce errores de dominio a respuestas HTTP.
// En producción los 500 no exponen el detalle; siempre se registran.
type ErrorResponder struct {
	production bool
	log        *logger.Logger
}

// NewErrorResponder construye el traductor.
func NewErrorResponder(production bool, log *logger.Logger) *ErrorResponder {
	if log == nil {
		log = logger.Nop()
	}
	return &ErrorResponder{production: production, log: log}
}

// Respond escribe el status y el cuerpo dto.ErrorResponse que corresponden a err.
func (r *ErrorResponder) Respond(c *fiber.Ctx, err error) error {
	status, body := r.classify(err)
	if status == fiber.StatusInternalServerError {
		r.log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func (r *ErrorResponder) classify(err error) (int, dto.ErrorResponse) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: "entrada inválida", Fields: verr.Fields}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeInsufficientStock, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: domain.ErrInvalidCredentials.Error()}
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError {
		return ferr.Code, dto.ErrorResponse{Code: fiberCode(ferr.Code), Message: ferr.Message}
	}

	msg := genericInternalMessage
	if !r.production {
		msg = err.Error()
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: msg}
}

// FiberErrorHandler para fiber.Config.ErrorHandler: rutas inexistentes, panics recuperados
// y errores que un handler devuelva sin responder.
func (r *ErrorResponder) FiberErrorHandler(c *fiber.Ctx, err error) error {
	return r.Respond(c, err)
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return CodeValidation
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
