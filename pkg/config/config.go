package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// InsecureDevJWTSecret se usa solo cuando JWT_SECRET no está definido.
// No apto para producción: Load marca JWT.UsingFallback y main rechaza arrancar en production.
const InsecureDevJWTSecret = "magizh-dev-only-insecure-jwt-secret"

// Drivers de almacenamiento soportados.
const (
	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Log       LogConfig
	Store     StoreConfig
	DB        DBConfig
	Firebase  FirebaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	HTTP      HTTPConfig
	Admin     AdminSeedConfig
	Scheduler SchedulerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env     string // development, staging, production
	Name    string
	Version string
	Company string // razón social en reportes y exportaciones
}

// IsProduction indica si el entorno es production.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LogConfig nivel del logger.
type LogConfig struct {
	Level string
}

// StoreConfig selecciona el backend de perfiles, identidades y documentos.
type StoreConfig struct {
	Driver string // postgres | firestore
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL   string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RunMigrations bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// FirebaseConfig credenciales de Firebase Admin. Ver firebase.DefaultStrategies para el orden de resolución.
type FirebaseConfig struct {
	ProjectID       string
	ClientEmail     string
	PrivateKey      string // PEM; admite "\n" escapados
	CredentialsFile string
	KService        string // definido por Cloud Run
	FirebaseConfig  string // definido por Cloud Functions / App Hosting
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret        string
	Expiration    int // minutos
	Issuer        string
	UsingFallback bool
}

// AuthConfig opciones del flujo de registro/login.
type AuthConfig struct {
	ReturnGeneratedPassword bool
	RateLimitMax            int
	RateLimitWindowSeconds  int
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AdminSeedConfig datos del administrador inicial (ADMIN_*).
type AdminSeedConfig struct {
	FirstName   string
	LastName    string
	FatherName  string
	DOB         string
	Email       string
	SeedOnStart bool
}

// Complete indica si están todos los campos requeridos para sembrar el admin.
func (c AdminSeedConfig) Complete() bool {
	return c.FirstName != "" && c.LastName != "" && c.FatherName != "" && c.DOB != "" && c.Email != ""
}

// SchedulerConfig expresiones cron de los jobs periódicos.
type SchedulerConfig struct {
	PendingApprovalsCron string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, FIREBASE_PROJECT_ID, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := getString(v, "APP_ENV", getString(v, "NODE_ENV", "development"))
	production := strings.EqualFold(env, "production")

	// PORT lo inyecta Cloud Run; HTTP_PORT queda como alias local.
	port := getInt(v, "PORT", getInt(v, "HTTP_PORT", 8080))

	cfg := &Config{
		App: AppConfig{
			Env:     env,
			Name:    getString(v, "APP_NAME", "magizh-api"),
			Version: getString(v, "APP_VERSION", "1.0.0"),
			Company: getString(v, "COMPANY_NAME", "Magizh Industries"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverPostgres)),
		},
		DB: DBConfig{
			DatabaseURL:   getString(v, "DATABASE_URL", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "magizh"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
			RunMigrations: getBool(v, "DB_RUN_MIGRATIONS", true),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getString(v, "FIREBASE_PROJECT_ID", ""),
			ClientEmail:     getString(v, "FIREBASE_CLIENT_EMAIL", ""),
			PrivateKey:      getString(v, "FIREBASE_PRIVATE_KEY", ""),
			CredentialsFile: getString(v, "FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json"),
			KService:        getString(v, "K_SERVICE", ""),
			FirebaseConfig:  getString(v, "FIREBASE_CONFIG", ""),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 7*24*60),
			Issuer:     getString(v, "JWT_ISSUER", "magizh-api"),
		},
		Auth: AuthConfig{
			ReturnGeneratedPassword: getBool(v, "AUTH_RETURN_GENERATED_PASSWORD", !production),
			RateLimitMax:            getInt(v, "AUTH_RATE_LIMIT_MAX", 10),
			RateLimitWindowSeconds:  getInt(v, "AUTH_RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        port,
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Admin: AdminSeedConfig{
			FirstName:   getString(v, "ADMIN_FIRSTNAME", ""),
			LastName:    getString(v, "ADMIN_LASTNAME", ""),
			FatherName:  getString(v, "ADMIN_FATHERNAME", ""),
			DOB:         getString(v, "ADMIN_DOB", ""),
			Email:       getString(v, "ADMIN_EMAIL", ""),
			SeedOnStart: getBool(v, "ADMIN_SEED_ON_START", false),
		},
		Scheduler: SchedulerConfig{
			PendingApprovalsCron: getString(v, "PENDING_APPROVALS_CRON", "@every 5m"),
		},
	}

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = InsecureDevJWTSecret
		cfg.JWT.UsingFallback = true
	}
	if cfg.JWT.Expiration <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverFirestore:
	default:
		return nil, fmt.Errorf("config: STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
