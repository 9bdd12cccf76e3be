package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/magizh-industries/magizh-api/docs"
	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/application/ports"
	"github.com/magizh-industries/magizh-api/internal/application/usecase"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/firebase"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/metrics"
	infrapdf "github.com/magizh-industries/magizh-api/internal/infrastructure/pdf"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/postgres"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/scheduler"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/tally"
	httpRouter "github.com/magizh-industries/magizh-api/internal/interfaces/http"
	"github.com/magizh-industries/magizh-api/pkg/config"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// stores repositorios del backend elegido por STORE_DRIVER.
type stores struct {
	users      repository.UserRepository
	identities repository.IdentityProvider
	materials  repository.MaterialRepository
	stock      repository.StockEntryRepository
	archive    repository.ArchiveRepository
	tx         ports.TxRunner
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.UsingFallback {
		if cfg.App.IsProduction() {
			log.Fatal().Msg("JWT_SECRET es obligatorio en production")
		}
		log.Warn().Msg("JWT_SECRET no definido: usando secreto de desarrollo")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("inicializar almacenamiento")
	}
	defer st.close()

	tokens := auth.NewTokenService(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	authUC := auth.NewAuthUseCase(st.users, st.identities, tokens, auth.Options{
		ReturnGeneratedPassword: cfg.Auth.ReturnGeneratedPassword,
	}, log)
	approvalUC := auth.NewApprovalUseCase(st.users, st.identities, log)
	materialUC := usecase.NewMaterialUseCase(st.materials, st.tx)
	stockUC := usecase.NewStockUseCase(
		st.materials, st.stock, st.tx,
		infrapdf.NewStockReportGenerator(), tally.NewExporter(), cfg.App.Company,
	)
	archiveUC := usecase.NewArchiveUseCase(st.archive, st.tx)

	if cfg.Admin.SeedOnStart {
		seedAdmin(ctx, authUC, cfg.Admin, log)
	}

	m := metrics.New()
	jobs := scheduler.New(log)
	if err := jobs.AddPendingApprovalsJob(cfg.Scheduler.PendingApprovalsCron, approvalUC, m); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Scheduler.PendingApprovalsCron).Msg("registrar job de pendientes")
	}
	// Primer valor del gauge sin esperar al primer tick.
	go scheduler.PendingApprovalsJob(approvalUC, m, log)()
	jobs.Start()

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:         cfg.App.Name,
		Version:         cfg.App.Version,
		Env:             cfg.App.Env,
		Production:      cfg.App.IsProduction(),
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		SwaggerFile:     cfg.HTTP.SwaggerFile,
		RateLimitMax:    cfg.Auth.RateLimitMax,
		RateLimitWindow: time.Duration(cfg.Auth.RateLimitWindowSeconds) * time.Second,
	}, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ApprovalUC: approvalUC,
		MaterialUC: materialUC,
		StockUC:    stockUC,
		ArchiveUC:  archiveUC,
		Tokens:     tokens,
		Metrics:    m,
		Log:        log,
	})

	go func() {
		addr := cfg.HTTP.Addr()
		log.Info().Str("addr", addr).Msg("servidor HTTP escuchando")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jobs.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("servidor detenido")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFirestore:
		clients, err := firebase.NewClients(ctx, cfg.Firebase, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:      firebase.NewUserRepository(clients.Firestore),
			identities: firebase.NewAuthProvider(clients.Auth),
			materials:  firebase.NewMaterialRepository(clients.Firestore),
			stock:      firebase.NewStockEntryRepository(clients.Firestore),
			archive:    firebase.NewArchiveRepository(clients.Firestore),
			tx:         firebase.NewTxRunner(clients.Firestore),
			close: func() {
				if err := clients.Close(); err != nil {
					log.Warn().Err(err).Msg("cerrar clientes firebase")
				}
			},
		}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.RunMigrations {
			if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		return &stores{
			users:      postgres.NewUserRepository(pool),
			identities: postgres.NewIdentityRepository(pool),
			materials:  postgres.NewMaterialRepository(pool),
			stock:      postgres.NewStockEntryRepository(pool),
			archive:    postgres.NewArchiveRepository(pool),
			tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	}
}

func seedAdmin(ctx context.Context, uc *auth.AuthUseCase, admin config.AdminSeedConfig, log *logger.Logger) {
	if !admin.Complete() {
		log.Warn().Msg("ADMIN_SEED_ON_START activo pero faltan variables ADMIN_*")
		return
	}
	res, err := uc.SeedAdmin(ctx, auth.AdminSeed{
		FirstName:  admin.FirstName,
		LastName:   admin.LastName,
		FatherName: admin.FatherName,
		DOB:        admin.DOB,
		Email:      admin.Email,
	})
	if err != nil {
		log.Error().Err(err).Msg("sembrar administrador")
		return
	}
	if res.Created {
		log.Warn().Str("user_id", res.UserID).Msg("administrador creado; use cmd/seed_admin para obtener credenciales")
		return
	}
	log.Info().Str("user_id", res.UserID).Msg("administrador existente")
}
