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

// InternalUserUseCase administra usuarios internos de una empresa.
// Toda operación se acota al companyID del llamador (multi-tenant).
type InternalUserUseCase struct {
	users    repository.InternalUserRepository
	profiles repository.PermissionProfileRepository
}

// NewInternalUserUseCase construye el caso de uso.
func NewInternalUserUseCase(users repository.InternalUserRepository, profiles repository.PermissionProfileRepository) *InternalUserUseCase {
	return &InternalUserUseCase{users: users, profiles: profiles}
}

// Create valida el invariante de filiales y la existencia del perfil antes de persistir.
func (uc *InternalUserUseCase) Create(ctx context.Context, companyID string, in dto.SaveInternalUserRequest) (*dto.InternalUserResponse, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company_id é obrigatório", domain.ErrInvalidInput)
	}
	now := time.Now()
	u := &entity.InternalUser{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySave(u, in)
	if err := uc.check(ctx, u); err != nil {
		return nil, err
	}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return toInternalUserResponse(u), nil
}

// GetByID domain.ErrNotFound si no existe o pertenece a otra empresa.
func (uc *InternalUserUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.InternalUserResponse, error) {
	u, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toInternalUserResponse(u), nil
}

// Update reemplaza los datos editables y revalida.
func (uc *InternalUserUseCase) Update(ctx context.Context, companyID, id string, in dto.SaveInternalUserRequest) (*dto.InternalUserResponse, error) {
	u, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	applySave(u, in)
	if err := uc.check(ctx, u); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return toInternalUserResponse(u), nil
}

// List usuarios internos de la empresa, paginados.
func (uc *InternalUserUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.InternalUserListResponse, error) {
	page.DefaultPage()
	list, err := uc.users.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InternalUserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toInternalUserResponse(u))
	}
	return &dto.InternalUserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina el usuario interno.
func (uc *InternalUserUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.load(ctx, companyID, id); err != nil {
		return err
	}
	return uc.users.Delete(ctx, id)
}

// Branches alcance de filiales del usuario.
func (uc *InternalUserUseCase) Branches(ctx context.Context, companyID, id string) (permission.BranchScope, error) {
	u, err := uc.load(ctx, companyID, id)
	if err != nil {
		return permission.BranchScope{}, err
	}
	return permission.ResolveBranches(u), nil
}

func (uc *InternalUserUseCase) check(ctx context.Context, u *entity.InternalUser) error {
	if err := permission.ValidateInternalUser(u); err != nil {
		return err
	}
	p, err := uc.profiles.GetByID(ctx, u.ProfileID)
	if err != nil {
		return fmt.Errorf("obtener perfil: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: o perfil %s não existe", domain.ErrInvalidInput, u.ProfileID)
	}
	return nil
}

func (uc *InternalUserUseCase) load(ctx context.Context, companyID, id string) (*entity.InternalUser, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario interno: %w", err)
	}
	if u == nil || u.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func applySave(u *entity.InternalUser, in dto.SaveInternalUserRequest) {
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	u.ProfileID = in.ProfileID
	u.HasFullAccess = in.HasFullAccess
	u.AccessibleBranches = in.AccessibleBranches
	if u.HasFullAccess {
		u.AccessibleBranches = nil
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
}

func toInternalUserResponse(u *entity.InternalUser) *dto.InternalUserResponse {
	branches := u.AccessibleBranches
	if branches == nil {
		branches = []string{}
	}
	return &dto.InternalUserResponse{
		ID:                 u.ID,
		CompanyID:          u.CompanyID,
		Name:               u.Name,
		Email:              u.Email,
		ProfileID:          u.ProfileID,
		AccessibleBranches: branches,
		HasFullAccess:      u.HasFullAccess,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
