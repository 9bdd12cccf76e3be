package dto

import "time"

// SignupRequest entrada para POST /api/auth/signup.
type SignupRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	FatherName string `json:"fatherName" validate:"required,max=100"`
	DOB        string `json:"dob" validate:"required,datetime=2006-01-02"`
	Email      string `json:"email" validate:"required,email,max=200"`
}

// SignupResponse salida del registro. Password solo viaja si la configuración lo permite.
type SignupResponse struct {
	UID        string `json:"uid"`
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	IsApproved bool   `json:"isApproved"`
	Password   string `json:"password,omitempty"`
	Message    string `json:"message"`
}

// LoginRequest entrada para login: identificador de login o email + password.
// Email se acepta como alias de Identifier (clientes antiguos).
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required_without=Email"`
	Email      string `json:"email" validate:"omitempty"`
	Password   string `json:"password" validate:"required"`
}

// Login devuelve el identificador efectivo.
func (r LoginRequest) Login() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	return r.Email
}

// LoginResponse salida con token JWT y perfil mínimo.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse salida de un perfil (sin hash de contraseña).
type UserResponse struct {
	UID        string     `json:"uid"`
	UserID     string     `json:"userId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	FatherName string     `json:"fatherName"`
	DOB        string     `json:"dob"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"isActive"`
	IsApproved bool       `json:"isApproved"`
	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
}

// UserListResponse lista paginada de perfiles.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ApprovalResponse resultado de aprobar o rechazar.
type ApprovalResponse struct {
	User    UserResponse `json:"user"`
	Changed bool         `json:"changed"` // false: ya estaba en ese estado
	Message string       `json:"message"`
}
