package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/magizh-industries/magizh-api/internal/domain"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
	"github.com/magizh-industries/magizh-api/pkg/credentials"
)

// AdminSeed datos del administrador inicial.
type AdminSeed struct {
	FirstName  string
	LastName   string
	FatherName string
	DOB        string
	Email      string
}

// SeedResult resultado de SeedAdmin. Password solo viene cuando Created es true.
type SeedResult struct {
	Created  bool
	UID      string
	UserID   string
	Password string
}

// SeedAdmin crea el administrador inicial ya aprobado. Es idempotente:
// si el identificador derivado ya existe no modifica nada y devuelve Created=false.
// Si el proveedor ya tiene una cuenta con ese email (corrida anterior incompleta) se reutiliza.
func (uc *AuthUseCase) SeedAdmin(ctx context.Context, in AdminSeed) (*SeedResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email del administrador requerido", domain.ErrInvalidInput)
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

	existing, err := uc.users.GetByUserID(ctx, creds.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.log.Info().Str("user_id", existing.UserID).Msg("administrador ya sembrado")
		return &SeedResult{Created: false, UID: existing.UID, UserID: existing.UserID}, nil
	}

	admin := &entity.User{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		FatherName: strings.TrimSpace(in.FatherName),
		DOB:        in.DOB,
		Email:      email,
		UserID:     creds.UserID,
		Role:       entity.RoleAdmin,
		IsActive:   true,
		IsApproved: true,
	}

	identity, err := uc.identities.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		if err := uc.createAccount(ctx, admin, creds.Password); err != nil {
			return nil, err
		}
	} else {
		if identity.Disabled {
			if err := uc.identities.SetDisabled(ctx, identity.UID, false); err != nil {
				return nil, err
			}
		}
		if err := uc.createProfile(ctx, identity, admin, creds.Password); err != nil {
			// La identidad no es de esta corrida: solo se devuelve al estado en que estaba.
			if identity.Disabled {
				if derr := uc.identities.SetDisabled(ctx, identity.UID, true); derr != nil {
					uc.log.Error().Err(derr).Str("uid", identity.UID).Msg("no se pudo restaurar identidad")
				}
			}
			return nil, err
		}
	}
	now := admin.CreatedAt
	admin.ApprovedAt = &now
	admin.ApprovedBy = admin.UID
	if err := uc.users.Update(ctx, admin); err != nil {
		return nil, err
	}

	uc.log.Info().Str("uid", admin.UID).Str("user_id", admin.UserID).Msg("administrador sembrado")
	return &SeedResult{Created: true, UID: admin.UID, UserID: admin.UserID, Password: creds.Password}, nil
}
