package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// requestIDKey clave de locals que usa el middleware requestid de Fiber.
const requestIDKey = "requestid"

// RequestObserver destino de las métricas por petición (metrics.Metrics).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger escribe un evento por petición con método, ruta, status, latencia e id.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler aún no escribió la respuesta
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Str("ip", c.IP()).
			Msg("http request")
		return err
	}
}

// MetricsMiddleware registra cada petición con la ruta registrada (no la URL) como etiqueta.
func MetricsMiddleware(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if s, ok := c.Locals(requestIDKey).(string); ok {
		return s
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
