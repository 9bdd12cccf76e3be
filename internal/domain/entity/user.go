package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User es el documento de perfil de la aplicación, separado de la cuenta del proveedor de identidad.
// UID es la clave del documento (uid estable del proveedor); UserID es el identificador de login generado.
type User struct {
	UID          string
	FirstName    string
	LastName     string
	FatherName   string
	DOB          string // YYYY-MM-DD
	Email        string
	UserID       string
	PasswordHash string // bcrypt, nunca sale de la capa de aplicación
	Role         string
	IsActive     bool
	IsApproved   bool
	CreatedAt    time.Time
	ApprovedAt   *time.Time
	ApprovedBy   string
	UpdatedAt    time.Time
}

// CanLogin indica si la cuenta está activa y aprobada.
func (u *User) CanLogin() bool {
	return u.IsActive && u.IsApproved
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName nombre para mostrar en el proveedor de identidad.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
