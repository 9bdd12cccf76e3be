package auth

import (
	"github.com/magizh-industries/magizh-api/internal/application/dto"
	"github.com/magizh-industries/magizh-api/internal/domain/entity"
)

// ToUserResponse convierte un perfil a DTO sin el hash de la contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		UID:        u.UID,
		UserID:     u.UserID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FatherName: u.FatherName,
		DOB:        u.DOB,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsApproved: u.IsApproved,
		CreatedAt:  u.CreatedAt,
		ApprovedAt: u.ApprovedAt,
		ApprovedBy: u.ApprovedBy,
	}
}

func toUserList(list []*entity.User, limit, offset int) *dto.UserListResponse {
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
