package entity

import "time"

// Roles de usuario para RBAC en la API.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User representa un usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // "admin" | "operador"
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
