package entity

import "time"

// Identity es la cuenta en el proveedor de identidad (Firebase Auth o la tabla identities).
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	Disabled    bool
	CreatedAt   time.Time
}
