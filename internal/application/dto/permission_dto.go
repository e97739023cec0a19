package dto

import "time"

// CreateProfileRequest body para POST /api/permission-profiles.
type CreateProfileRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}

// UpdateProfileRequest actualización parcial de un perfil.
type UpdateProfileRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=120"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

// ProfileResponse perfil de permisos en respuestas.
type ProfileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionCheckResponse respuesta de GET /api/permissions/check.
type PermissionCheckResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

// SaveInternalUserRequest body para crear o reemplazar un usuario interno.
type SaveInternalUserRequest struct {
	Name               string   `json:"name" validate:"required,max=200"`
	Email              string   `json:"email" validate:"required,email"`
	ProfileID          string   `json:"profile_id" validate:"required"`
	AccessibleBranches []string `json:"accessible_branches" validate:"dive,required"`
	HasFullAccess      bool     `json:"has_full_access"`
	IsActive           *bool    `json:"is_active,omitempty"` // por defecto true
}

// InternalUserResponse usuario interno en respuestas.
type InternalUserResponse struct {
	ID                 string    `json:"id"`
	CompanyID          string    `json:"company_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	ProfileID          string    `json:"profile_id"`
	AccessibleBranches []string  `json:"accessible_branches"`
	HasFullAccess      bool      `json:"has_full_access"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// InternalUserListResponse lista paginada de usuarios internos.
type InternalUserListResponse struct {
	Items []InternalUserResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
