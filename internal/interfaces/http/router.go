package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/usecase"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/metrics"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// ServerConfig opciones del servidor HTTP.
type ServerConfig struct {
	AppName         string
	Version         string
	Env             string
	Production      bool
	CORSOrigins     string
	SwaggerFile     string // vacío o inexistente: sin /docs
	RateLimitMax    int    // 0: sin límite en signup/login
	RateLimitWindow time.Duration
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ApprovalUC *auth.ApprovalUseCase
	MaterialUC *usecase.MaterialUseCase
	StockUC    *usecase.StockUseCase
	ArchiveUC  *usecase.ArchiveUseCase
	Tokens     *auth.TokenService
	Metrics    *metrics.Metrics // opcional
	Log        *logger.Logger
}

// NewApp construye la app Fiber con middlewares globales y todas las rutas.
func NewApp(cfg ServerConfig, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	errs := NewErrorResponder(cfg.Production, deps.Log.Named("http"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errs.FiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    cfg.AppName + " API",
			}))
		} else {
			deps.Log.Warn().Str("file", cfg.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	health := NewHealthHandler(cfg.AppName, cfg.Version, cfg.Env)
	app.Get("/", health.Root)
	app.Get("/health", health.Health)
	app.Get("/api/health", health.Health)

	Router(app, deps, errs, authLimiter(cfg))
	return app
}

// Router registra las rutas de la API. limit se aplica a signup y login (nil: sin límite).
func Router(app *fiber.App, deps RouterDeps, errs *ErrorResponder, limit fiber.Handler) {
	var events AuthEventRecorder = nopRecorder{}
	if deps.Metrics != nil {
		events = deps.Metrics
	}
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Tokens)
	admin := AdminOnly()

	// Auth (público, con rate limit)
	authHandler := NewAuthHandler(deps.AuthUC, errs, events)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", limit, authHandler.Signup)
	authGroup.Post("/login", limit, authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Administración de usuarios (admin)
	approvalHandler := NewApprovalHandler(deps.ApprovalUC, errs, events)
	authGroup.Get("/pending", requireAuth, admin, approvalHandler.ListPending)
	authGroup.Get("/users", requireAuth, admin, approvalHandler.ListUsers)
	authGroup.Post("/approve/:id", requireAuth, admin, approvalHandler.Approve)
	authGroup.Post("/reject/:id", requireAuth, admin, approvalHandler.Reject)

	// Maestro de materiales (protegido)
	materialHandler := NewMaterialHandler(deps.MaterialUC, errs)
	master := api.Group("/master", requireAuth)
	master.Post("/", materialHandler.Create)
	master.Get("/", materialHandler.List)
	master.Get("/:id", materialHandler.GetByID)
	master.Put("/:id", materialHandler.Update)
	master.Delete("/:id", admin, materialHandler.Archive)

	// Stock (protegido); rutas fijas antes de /:id
	stockHandler := NewStockHandler(deps.StockUC, errs)
	stock := api.Group("/stock", requireAuth)
	stock.Post("/", stockHandler.Create)
	stock.Get("/", stockHandler.List)
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/report.pdf", stockHandler.ReportPDF)
	stock.Get("/export/tally", admin, stockHandler.ExportTally)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Delete("/:id", admin, stockHandler.Archive)

	// Archivo (protegido; restaurar solo admin)
	archiveHandler := NewArchiveHandler(deps.ArchiveUC, errs)
	archive := api.Group("/archive", requireAuth)
	archive.Get("/", archiveHandler.List)
	archive.Get("/:id", archiveHandler.GetByID)
	archive.Post("/:id/restore", admin, archiveHandler.Restore)
}

func authLimiter(cfg ServerConfig) fiber.Handler {
	if cfg.RateLimitMax <= 0 {
		return nil
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados intentos, espere un momento"})
		},
	})
}
