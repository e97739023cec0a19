package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

// ProfileUseCase CRUD de perfiles de permisos.
type ProfileUseCase struct {
	profiles repository.PermissionProfileRepository
	users    repository.InternalUserRepository
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(profiles repository.PermissionProfileRepository, users repository.InternalUserRepository) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles, users: users}
}

// List todos los perfiles.
func (uc *ProfileUseCase) List(ctx context.Context) ([]*dto.ProfileResponse, error) {
	list, err := uc.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProfileResponse(p))
	}
	return out, nil
}

// GetByID domain.ErrNotFound si no existe.
func (uc *ProfileUseCase) GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// Create valida nombre y permisos y persiste el perfil.
func (uc *ProfileUseCase) Create(ctx context.Context, in dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name é obrigatório", domain.ErrInvalidInput)
	}
	perms, err := normalizePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.PermissionProfile{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// Update actualización parcial.
func (uc *ProfileUseCase) Update(ctx context.Context, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name é obrigatório", domain.ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Permissions != nil {
		if p.Permissions, err = normalizePermissions(*in.Permissions); err != nil {
			return nil, err
		}
	}
	p.UpdatedAt = time.Now()
	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// Delete domain.ErrConflict si algún usuario interno aún usa el perfil.
func (uc *ProfileUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	n, err := uc.users.CountByProfile(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: o perfil está atribuído a %d usuário(s)", domain.ErrConflict, n)
	}
	return uc.profiles.Delete(ctx, id)
}

func (uc *ProfileUseCase) load(ctx context.Context, id string) (*entity.PermissionProfile, error) {
	p, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func normalizePermissions(tags []string) ([]string, error) {
	set := permission.NewSet()
	for _, t := range tags {
		p := permission.Permission(strings.TrimSpace(t))
		if !permission.Known(p) {
			return nil, fmt.Errorf("%w: permissão desconhecida %q", domain.ErrInvalidInput, t)
		}
		set[p] = struct{}{}
	}
	return set.Strings(), nil
}

func toProfileResponse(p *entity.PermissionProfile) *dto.ProfileResponse {
	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &dto.ProfileResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Permissions: perms,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
