package repository

import (
	"context"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

// PermissionProfileRepository define el puerto de persistencia para perfiles de permisos.
type PermissionProfileRepository interface {
	List(ctx context.Context) ([]*entity.PermissionProfile, error)
	GetByID(ctx context.Context, id string) (*entity.PermissionProfile, error)
	Create(ctx context.Context, profile *entity.PermissionProfile) error
	Update(ctx context.Context, profile *entity.PermissionProfile) error
	Delete(ctx context.Context, id string) error
}
