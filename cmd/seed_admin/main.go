// seed_admin crea el administrador inicial a partir de las variables ADMIN_* y
// muestra el identificador y la contraseña generados. Es idempotente: si el
// administrador ya existe no modifica nada.
//
// Uso: go run ./cmd/seed_admin
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/firebase"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/postgres"
	"github.com/magizh-industries/magizh-api/pkg/config"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if !cfg.Admin.Complete() {
		fmt.Fprintln(os.Stderr, "faltan variables: ADMIN_FIRSTNAME, ADMIN_LASTNAME, ADMIN_FATHERNAME, ADMIN_DOB, ADMIN_EMAIL")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed_admin"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var (
		users      repository.UserRepository
		identities repository.IdentityProvider
	)
	switch cfg.Store.Driver {
	case config.StoreDriverFirestore:
		clients, err := firebase.NewClients(ctx, cfg.Firebase, log)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase")
		}
		defer clients.Close()
		users = firebase.NewUserRepository(clients.Firestore)
		identities = firebase.NewAuthProvider(clients.Auth)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.RunMigrations {
			if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		users = postgres.NewUserRepository(pool)
		identities = postgres.NewIdentityRepository(pool)
	}

	// El seed no emite tokens.
	uc := auth.NewAuthUseCase(users, identities, nil, auth.Options{}, log)
	res, err := uc.SeedAdmin(ctx, auth.AdminSeed{
		FirstName:  cfg.Admin.FirstName,
		LastName:   cfg.Admin.LastName,
		FatherName: cfg.Admin.FatherName,
		DOB:        cfg.Admin.DOB,
		Email:      cfg.Admin.Email,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar administrador")
	}

	if !res.Created {
		fmt.Printf("El administrador ya existe: %s\n", res.UserID)
		return
	}
	fmt.Println("Administrador creado")
	fmt.Printf("  uid:        %s\n", res.UID)
	fmt.Printf("  userId:     %s\n", res.UserID)
	fmt.Printf("  contraseña: %s\n", res.Password)
	fmt.Println("Guarde la contraseña: no se vuelve a mostrar.")
}
