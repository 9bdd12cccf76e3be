package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
	"github.com/magizh-industries/magizh-api/pkg/credentials"
	"github.com/magizh-industries/magizh-api/pkg/logger"
	"github.com/magizh-industries/magizh-api/pkg/password"
)

// Options ajustes del flujo de registro/login.
type Options struct {
	// ReturnGeneratedPassword incluye la contraseña inicial en la respuesta del registro.
	// Es el comportamiento histórico del producto; en production se desactiva por defecto.
	ReturnGeneratedPassword bool
	// BcryptCost 0 = password.DefaultCost.
	BcryptCost int
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil propio.
type AuthUseCase struct {
	users      repository.UserRepository
	identities repository.IdentityProvider
	tokens     *TokenService
	opts       Options
	log        *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, identities repository.IdentityProvider, tokens *TokenService, opts Options, log *logger.Logger) *AuthUseCase {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = password.DefaultCost
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{users: users, identities: identities, tokens: tokens, opts: opts, log: log.Named("auth")}
}

// Signup registra un usuario pendiente de aprobación.
// Devuelve domain.ErrConflict si el identificador generado o el email ya existen; nunca sobrescribe.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SignupResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	creds, err := credentials.Generate(credentials.Input{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		FatherName: in.FatherName,
		DOB:        in.DOB,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// Lectura-luego-escritura sin transacción: dos registros concurrentes con el mismo
	// identificador pueden pasar ambos este chequeo. En Postgres el índice único rechaza
	// el segundo insert; en Firestore no hay esa garantía.
	existing, err := uc.users.GetByUserID(ctx, creds.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el identificador %s ya existe", domain.ErrConflict, creds.UserID)
	}
	byEmail, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		return nil, fmt.Errorf("%w: el email ya está registrado", domain.ErrConflict)
	}

	user := &entity.User{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		FatherName: strings.TrimSpace(in.FatherName),
		DOB:        in.DOB,
		Email:      in.Email,
		UserID:     creds.UserID,
		Role:       entity.RoleEmployee,
		IsActive:   true,
		IsApproved: false,
	}
	if err := uc.createAccount(ctx, user, creds.Password); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uid", user.UID).Str("user_id", user.UserID).Msg("usuario registrado, pendiente de aprobación")

	out := &dto.SignupResponse{
		UID:        user.UID,
		UserID:     user.UserID,
		Email:      user.Email,
		IsApproved: false,
		Message:    "registro exitoso, pendiente de aprobación del administrador",
	}
	if uc.opts.ReturnGeneratedPassword {
		out.Password = creds.Password
	}
	return out, nil
}

// createAccount crea la cuenta en el proveedor de identidad y el perfil con la clave uid.
// Completa UID, PasswordHash, CreatedAt y UpdatedAt de user.
func (uc *AuthUseCase) createAccount(ctx context.Context, user *entity.User, plain string) error {
	identity, err := uc.identities.CreateUser(ctx, repository.IdentityToCreate{
		Email:       user.Email,
		Password:    plain,
		DisplayName: user.DisplayName(),
		Disabled:    !user.CanLogin(),
	})
	if err != nil {
		return err
	}
	if err := uc.createProfile(ctx, identity, user, plain); err != nil {
		// La identidad recién creada quedó sin perfil: se deshabilita para que no sea usable.
		if derr := uc.identities.SetDisabled(ctx, identity.UID, true); derr != nil {
			uc.log.Error().Err(derr).Str("uid", identity.UID).Msg("no se pudo deshabilitar identidad huérfana")
		}
		return err
	}
	return nil
}

func (uc *AuthUseCase) createProfile(ctx context.Context, identity *entity.Identity, user *entity.User, plain string) error {
	hash, err := password.HashWithCost(plain, uc.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user.UID = identity.UID
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now
	return uc.users.Create(ctx, user)
}

// Login valida identificador/email + contraseña y emite un token de sesión.
// Usuario inexistente, contraseña incorrecta y cuenta no aprobada devuelven el mismo
// domain.ErrInvalidCredentials para no filtrar qué cuentas existen.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	login := strings.ToLower(strings.TrimSpace(in.Login()))

	user, err := uc.resolve(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Mismo costo que una verificación real.
		password.Verify(in.Password, uc.dummy())
		uc.log.Debug().Str("login", login).Msg("login rechazado: usuario inexistente")
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		uc.log.Debug().Str("uid", user.UID).Msg("login rechazado: contraseña incorrecta")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		uc.log.Debug().Str("uid", user.UID).
			Bool("active", user.IsActive).Bool("approved", user.IsApproved).
			Msg("login rechazado: cuenta inactiva o sin aprobar")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokens.Issue(user.UID, user.UserID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *ToUserResponse(user),
	}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, uid string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) resolve(ctx context.Context, login string) (*entity.User, error) {
	if login == "" {
		return nil, nil
	}
	user, err := uc.users.GetByUserID(ctx, login)
	if err != nil || user != nil {
		return user, err
	}
	if strings.Contains(login, "@") {
		return uc.users.GetByEmail(ctx, login)
	}
	return nil, nil
}

func (uc *AuthUseCase) dummy() string {
	uc.dummyOnce.Do(func() {
		h, err := password.HashWithCost("magizh-dummy-password", uc.opts.BcryptCost)
		if err == nil {
			uc.dummyHash = h
		}
	})
	return uc.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAuthError indica si err corresponde a credenciales o token inválidos.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrInvalidToken)
}
