package entity

import "time"

// PermissionProfile conjunto editable de permisos asignable a usuarios internos.
type PermissionProfile struct {
	ID          string
	Name        string
	Description string
	Permissions []string // normalizado: ordenado y sin duplicados
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
