package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/magizh-industries/magizh-api/pkg/config"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// Clients clientes de Firebase Admin usados por la API.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// Close libera el cliente de Firestore.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

// NewClients inicializa la app de Firebase con la primera estrategia de credenciales aplicable.
func NewClients(ctx context.Context, cfg config.FirebaseConfig, log *logger.Logger) (*Clients, error) {
	strategy, opts, err := ResolveCredentials(cfg, DefaultStrategies())
	if err != nil {
		return nil, err
	}
	log.Info().Str("strategy", strategy).Str("project_id", cfg.ProjectID).Msg("inicializando Firebase Admin")

	var fbCfg *fb.Config
	if cfg.ProjectID != "" {
		fbCfg = &fb.Config{ProjectID: cfg.ProjectID}
	}
	app, err := fb.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: firestore client: %w", err)
	}
	return &Clients{Auth: authClient, Firestore: fs}, nil
}
