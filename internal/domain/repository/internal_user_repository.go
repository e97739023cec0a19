package repository

import (
	"context"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

// InternalUserRepository define el puerto de persistencia para usuarios internos.
type InternalUserRepository interface {
	Create(ctx context.Context, user *entity.InternalUser) error
	GetByID(ctx context.Context, id string) (*entity.InternalUser, error)
	Update(ctx context.Context, user *entity.InternalUser) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.InternalUser, error)
	Delete(ctx context.Context, id string) error
	// CountByProfile cuántos usuarios internos referencian el perfil.
	CountByProfile(ctx context.Context, profileID string) (int, error)
}
