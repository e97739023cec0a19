package entity

import (
	"slices"
	"time"
)

// InternalUser usuario interno (no alumno) gobernado por un PermissionProfile.
// Sin acceso total, solo ve las filiales listadas en AccessibleBranches.
type InternalUser struct {
	ID                 string
	CompanyID          string
	Name               string
	Email              string
	ProfileID          string
	AccessibleBranches []string
	HasFullAccess      bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Usable informa si el usuario puede operar: activo y con al menos una filial
// cuando no tiene acceso total.
func (u *InternalUser) Usable() bool {
	return u.IsActive && (u.HasFullAccess || len(u.AccessibleBranches) > 0)
}

// CanAccessBranch informa si el usuario puede actuar sobre la filial indicada.
func (u *InternalUser) CanAccessBranch(branchID string) bool {
	if u.HasFullAccess {
		return true
	}
	return slices.Contains(u.AccessibleBranches, branchID)
}
