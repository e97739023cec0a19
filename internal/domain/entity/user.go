package entity

import "time"

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User cuenta de acceso a la plataforma (alumno, empresa, filial o usuario interno).
type User struct {
	ID           string
	CompanyID    string // vacío para alumnos individuales
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // ver permission.Role*
	ProfileID    string // perfil dinámico; vacío o "aluno" usa la tabla estática
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
