// Package firebase construye los clientes de Firebase Auth y Firestore y los adaptadores
// de perfiles, identidades, materiales, stock y archivo sobre ellos.
package firebase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"

	"github.com/magizh-industries/magizh-api/pkg/config"
)

// ErrNoCredentials ninguna estrategia aplica a la configuración.
var ErrNoCredentials = errors.New("firebase: no hay credenciales disponibles")

// CredentialStrategy una forma de obtener credenciales. Applies decide si se usa;
// Options devuelve las opciones del cliente (vacío = Application Default Credentials).
type CredentialStrategy struct {
	Name    string
	Applies func(cfg config.FirebaseConfig) bool
	Options func(cfg config.FirebaseConfig) ([]option.ClientOption, error)
}

// DefaultStrategies orden de resolución:
// cuenta de servicio explícita (FIREBASE_PROJECT_ID + FIREBASE_CLIENT_EMAIL + FIREBASE_PRIVATE_KEY),
// plataforma (K_SERVICE / FIREBASE_CONFIG), archivo de cuenta de servicio y por último ADC.
func DefaultStrategies() []CredentialStrategy {
	return []CredentialStrategy{
		{
			Name: "explicit-service-account",
			Applies: func(cfg config.FirebaseConfig) bool {
				return cfg.ProjectID != "" && cfg.ClientEmail != "" && cfg.PrivateKey != ""
			},
			Options: func(cfg config.FirebaseConfig) ([]option.ClientOption, error) {
				b, err := serviceAccountJSON(cfg)
				if err != nil {
					return nil, err
				}
				return []option.ClientOption{option.WithCredentialsJSON(b)}, nil
			},
		},
		{
			Name: "platform-default",
			Applies: func(cfg config.FirebaseConfig) bool {
				return cfg.KService != "" || cfg.FirebaseConfig != ""
			},
			Options: noOptions,
		},
		{
			Name: "service-account-file",
			Applies: func(cfg config.FirebaseConfig) bool {
				if cfg.CredentialsFile == "" {
					return false
				}
				st, err := os.Stat(cfg.CredentialsFile)
				return err == nil && !st.IsDir()
			},
			Options: func(cfg config.FirebaseConfig) ([]option.ClientOption, error) {
				return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}, nil
			},
		},
		{
			Name:    "application-default",
			Applies: func(config.FirebaseConfig) bool { return true },
			Options: noOptions,
		},
	}
}

// ResolveCredentials devuelve la primera estrategia que aplica y sus opciones.
func ResolveCredentials(cfg config.FirebaseConfig, strategies []CredentialStrategy) (string, []option.ClientOption, error) {
	for _, s := range strategies {
		if !s.Applies(cfg) {
			continue
		}
		opts, err := s.Options(cfg)
		if err != nil {
			return "", nil, fmt.Errorf("firebase: estrategia %s: %w", s.Name, err)
		}
		return s.Name, opts, nil
	}
	return "", nil, ErrNoCredentials
}

func noOptions(config.FirebaseConfig) ([]option.ClientOption, error) { return nil, nil }

// serviceAccountJSON arma el JSON de cuenta de servicio. La clave suele llegar por env con "\n" escapados.
func serviceAccountJSON(cfg config.FirebaseConfig) ([]byte, error) {
	key := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")
	if !strings.Contains(key, "PRIVATE KEY") {
		return nil, errors.New("FIREBASE_PRIVATE_KEY no parece una clave PEM")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  key,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}
