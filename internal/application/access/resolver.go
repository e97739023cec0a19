// Package access resuelve la autorización de un sujeto y administra perfiles de permisos
// y usuarios internos.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/capacita-api/internal/domain/permission"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

// Subject identidad autenticada tal como llega en el JWT.
type Subject struct {
	UserID    string
	Role      string
	ProfileID string
}

// Resolver convierte un Subject en una permission.Authorization.
type Resolver struct {
	profiles repository.PermissionProfileRepository
}

// NewResolver construye el resolver. profiles puede ser el repositorio con caché.
func NewResolver(profiles repository.PermissionProfileRepository) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve sin perfil (o con el marcador "aluno") usa la tabla estática por rol.
// Un perfil inexistente resuelve a un conjunto vacío: niega todo.
func (r *Resolver) Resolve(ctx context.Context, s Subject) (permission.Authorization, error) {
	switch s.ProfileID {
	case "":
		return permission.StaticRole{Role: permission.Role(s.Role)}, nil
	case permission.StudentProfileID:
		return permission.StaticRole{Role: permission.RoleAluno}, nil
	}
	p, err := r.profiles.GetByID(ctx, s.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("cargar perfil %s: %w", s.ProfileID, err)
	}
	if p == nil {
		return permission.DynamicProfile{ProfileID: s.ProfileID, Permissions: permission.NewSet()}, nil
	}
	return permission.DynamicProfile{ProfileID: p.ID, Permissions: permission.SetFromStrings(p.Permissions)}, nil
}

// HasPermission resuelve y consulta en un paso.
func (r *Resolver) HasPermission(ctx context.Context, s Subject, p permission.Permission) (bool, error) {
	auth, err := r.Resolve(ctx, s)
	if err != nil {
		return false, err
	}
	return permission.HasPermission(auth, p), nil
}

// Permissions etiquetas efectivas del sujeto.
func (r *Resolver) Permissions(ctx context.Context, s Subject) ([]string, error) {
	auth, err := r.Resolve(ctx, s)
	if err != nil {
		return nil, err
	}
	return permission.Effective(auth), nil
}
