package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/internal/domain/repository"
	"github.com/magizh-industries/magizh-api/pkg/logger"
)

// ApprovalUseCase flujo de aprobación de cuentas por un administrador.
type ApprovalUseCase struct {
	users      repository.UserRepository
	identities repository.IdentityProvider
	log        *logger.Logger
}

// NewApprovalUseCase construye el caso de uso de aprobación.
func NewApprovalUseCase(users repository.UserRepository, identities repository.IdentityProvider, log *logger.Logger) *ApprovalUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ApprovalUseCase{users: users, identities: identities, log: log.Named("approval")}
}

// ListPending lista cuentas activas sin aprobar, más antiguas primero.
func (uc *ApprovalUseCase) ListPending(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.users.ListPending(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toUserList(list, page.Limit, page.Offset), nil
}

// ListUsers lista todos los perfiles.
func (uc *ApprovalUseCase) ListUsers(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.users.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toUserList(list, page.Limit, page.Offset), nil
}

// Approve aprueba la cuenta uid. Aprobar una cuenta ya aprobada no cambia nada.
func (uc *ApprovalUseCase) Approve(ctx context.Context, adminUID, uid string) (*dto.ApprovalResponse, error) {
	user, err := uc.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.IsApproved && user.IsActive {
		return &dto.ApprovalResponse{User: *ToUserResponse(user), Changed: false, Message: "la cuenta ya estaba aprobada"}, nil
	}
	if err := uc.identities.SetDisabled(ctx, user.UID, false); err != nil {
		return nil, fmt.Errorf("habilitar identidad: %w", err)
	}

	now := time.Now().UTC()
	user.IsApproved = true
	user.IsActive = true
	user.ApprovedAt = &now
	user.ApprovedBy = adminUID
	user.UpdatedAt = now
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uid", user.UID).Str("admin", adminUID).Msg("cuenta aprobada")
	return &dto.ApprovalResponse{User: *ToUserResponse(user), Changed: true, Message: "cuenta aprobada"}, nil
}

// Reject desactiva la cuenta uid. Un administrador no puede rechazarse a sí mismo.
func (uc *ApprovalUseCase) Reject(ctx context.Context, adminUID, uid string) (*dto.ApprovalResponse, error) {
	if adminUID == uid {
		return nil, fmt.Errorf("%w: no puede rechazar su propia cuenta", domain.ErrInvalidInput)
	}
	user, err := uc.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !user.IsActive && !user.IsApproved {
		return &dto.ApprovalResponse{User: *ToUserResponse(user), Changed: false, Message: "la cuenta ya estaba rechazada"}, nil
	}
	if err := uc.identities.SetDisabled(ctx, user.UID, true); err != nil {
		return nil, fmt.Errorf("deshabilitar identidad: %w", err)
	}

	user.IsActive = false
	user.IsApproved = false
	user.ApprovedAt = nil
	user.ApprovedBy = ""
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uid", user.UID).Str("admin", adminUID).Msg("cuenta rechazada")
	return &dto.ApprovalResponse{User: *ToUserResponse(user), Changed: true, Message: "cuenta rechazada"}, nil
}

// CountPending número de cuentas pendientes, usado por la métrica periódica.
func (uc *ApprovalUseCase) CountPending(ctx context.Context) (int, error) {
	return uc.users.CountPending(ctx)
}

func (uc *ApprovalUseCase) load(ctx context.Context, uid string) (*entity.User, error) {
	if uid == "" {
		return nil, dto.Invalid("id", "es requerido")
	}
	user, err := uc.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
