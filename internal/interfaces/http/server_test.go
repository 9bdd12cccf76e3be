package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magizh-industries/magizh-api/internal/application/auth"
	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/application/usecase"
	"github.com/magizh-industries/magizh-api/internal/infrastructure/metrics"
	apphttp "github.com/magizh-industries/magizh-api/internal/interfaces/http"
)

type server struct {
	app      *fiber.App
	users    *memUsers
	admin    *auth.SeedResult
	adminTok string
}

func newServer(t *testing.T, cfg apphttp.ServerConfig) *server {
	t.Helper()
	users, identities := newMemUsers(), newMemIdentities()
	tokens := testTokens()
	authUC := auth.NewAuthUseCase(users, identities, tokens, auth.Options{
		ReturnGeneratedPassword: true,
		BcryptCost:              bcrypt.MinCost,
	}, nil)

	admin, err := authUC.SeedAdmin(context.Background(), auth.AdminSeed{
		FirstName: "Magizh", LastName: "Super", FatherName: "Admin", DOB: "2000-07-15", Email: "admin@magizh.in",
	})
	require.NoError(t, err)
	require.True(t, admin.Created)

	if cfg.AppName == "" {
		cfg.AppName = "magizh-api"
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	app := apphttp.NewApp(cfg, apphttp.RouterDeps{
		AuthUC:     authUC,
		ApprovalUC: auth.NewApprovalUseCase(users, identities, nil),
		MaterialUC: usecase.NewMaterialUseCase(emptyMaterials{}, nil),
		Tokens:     tokens,
		Metrics:    metrics.New(),
	})

	s := &server{app: app, users: users, admin: admin}
	var login dto.LoginResponse
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: admin.UserID, Password: admin.Password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &login)
	s.adminTok = login.Token
	return s
}

func (s *server) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func anuSignup() dto.SignupRequest {
	return dto.SignupRequest{FirstName: "Anu", LastName: "Raj", FatherName: "Kumar", DOB: "1995-01-01", Email: "anu@x.com"}
}

func TestScenario_AnuSignupAprobacionLogin(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})

	// 1. signup: identificador + password, pendiente de aprobación
	resp := s.do(t, http.MethodPost, "/api/auth/signup", "", anuSignup())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var signup dto.SignupResponse
	decode(t, resp, &signup)
	assert.Equal(t, "anukr0101", signup.UserID)
	assert.NotEmpty(t, signup.Password)
	assert.False(t, signup.IsApproved)

	// 2. login antes de aprobar: 401 genérico
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: signup.UserID, Password: signup.Password})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))

	// 3. aparece en pendientes
	resp = s.do(t, http.MethodGet, "/api/auth/pending", s.adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pendingList dto.UserListResponse
	decode(t, resp, &pendingList)
	require.Len(t, pendingList.Items, 1)
	assert.Equal(t, signup.UID, pendingList.Items[0].UID)

	// 4. admin aprueba (dos veces: idempotente)
	resp = s.do(t, http.MethodPost, "/api/auth/approve/"+signup.UID, s.adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first dto.ApprovalResponse
	decode(t, resp, &first)
	assert.True(t, first.Changed)
	assert.True(t, first.User.IsApproved)

	resp = s.do(t, http.MethodPost, "/api/auth/approve/"+signup.UID, s.adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second dto.ApprovalResponse
	decode(t, resp, &second)
	assert.False(t, second.Changed)
	assert.Equal(t, first.User.ApprovedAt, second.User.ApprovedAt)

	// 5. login: 200 con token verificable
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: signup.UserID, Password: signup.Password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	claims, err := testTokens().Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.UID, claims.UID())
	assert.Equal(t, "employee", claims.Role)

	// 6. /me con el token del empleado
	resp = s.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decode(t, resp, &me)
	assert.Equal(t, "anukr0101", me.UserID)

	// 7. el empleado no accede a rutas de admin
	resp = s.do(t, http.MethodGet, "/api/auth/pending", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSignup_Errores(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})

	resp := s.do(t, http.MethodPost, "/api/auth/signup", "", anuSignup())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/auth/signup", "", anuSignup())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, resp))

	bad := anuSignup()
	bad.DOB = "01/01/1995"
	resp = s.do(t, http.MethodPost, "/api/auth/signup", "", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "dob")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte("{no-json")))
	req.Header.Set("Content-Type", "application/json")
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, raw))
}

func TestApprove_Inexistente404(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})
	resp := s.do(t, http.MethodPost, "/api/auth/approve/no-existe", s.adminTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestReject_AdminNoSeRechazaASiMismo(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})
	resp := s.do(t, http.MethodPost, "/api/auth/reject/"+s.admin.UID, s.adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRutasProtegidas(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})

	resp := s.do(t, http.MethodGet, "/api/master", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))

	resp = s.do(t, http.MethodGet, "/api/master/no-existe", s.adminTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = s.do(t, http.MethodGet, "/api/master?status=borrado", s.adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/master?limit=500", s.adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthYRoot(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{Version: "1.0.0", Env: "test"})

	for _, path := range []string{"/health", "/api/health"} {
		resp := s.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "test", body["env"])
		_, err := time.Parse(time.RFC3339, body["timestamp"])
		assert.NoError(t, err)
	}

	resp := s.do(t, http.MethodGet, "/", "", nil)
	var root map[string]string
	decode(t, resp, &root)
	assert.Equal(t, "1.0.0", root["version"])
	assert.Equal(t, "running", root["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})
	resp := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `magizh_auth_events_total{event="login",outcome="success"} 1`)
}

func TestRutaInexistente(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{})
	resp := s.do(t, http.MethodGet, "/no/existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestRateLimitLogin(t *testing.T) {
	s := newServer(t, apphttp.ServerConfig{RateLimitMax: 2, RateLimitWindow: time.Minute})
	// newServer ya consumió un intento con el login del admin
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: "x", Password: "y"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Identifier: "x", Password: "y"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, resp))
}
