package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

var (
	_ repository.PermissionProfileRepository = (*ProfileRepo)(nil)
	_ repository.InternalUserRepository      = (*InternalUserRepo)(nil)
	_ repository.UserRepository              = (*UserRepo)(nil)
)

// ProfileRepo perfiles de permisos en memoria.
type ProfileRepo struct {
	s *Store
}

func cloneProfile(p *entity.PermissionProfile) *entity.PermissionProfile {
	cp := *p
	cp.Permissions = slices.Clone(p.Permissions)
	return &cp
}

// List perfiles ordenados por nombre.
func (r *ProfileRepo) List(_ context.Context) ([]*entity.PermissionProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.PermissionProfile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetByID (nil, nil) si no existe.
func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.PermissionProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

// Create persiste un perfil nuevo.
func (r *ProfileRepo) Create(_ context.Context, p *entity.PermissionProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.profiles[p.ID] = cloneProfile(p)
	return nil
}

// Update reemplaza un perfil existente.
func (r *ProfileRepo) Update(_ context.Context, p *entity.PermissionProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.profiles[p.ID] = cloneProfile(p)
	return nil
}

// Delete elimina un perfil.
func (r *ProfileRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, id)
	return nil
}

// InternalUserRepo usuarios internos en memoria.
type InternalUserRepo struct {
	s *Store
}

func cloneInternalUser(u *entity.InternalUser) *entity.InternalUser {
	cp := *u
	cp.AccessibleBranches = slices.Clone(u.AccessibleBranches)
	return &cp
}

// Create persiste un usuario interno; domain.ErrEmailExists si el email ya está en uso.
func (r *InternalUserRepo) Create(_ context.Context, u *entity.InternalUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.internalUsers {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailExists
		}
	}
	r.s.internalUsers[u.ID] = cloneInternalUser(u)
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *InternalUserRepo) GetByID(_ context.Context, id string) (*entity.InternalUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.internalUsers[id]
	if !ok {
		return nil, nil
	}
	return cloneInternalUser(u), nil
}

// Update reemplaza un usuario interno existente.
func (r *InternalUserRepo) Update(_ context.Context, u *entity.InternalUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.internalUsers[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.internalUsers {
		if other.ID != u.ID && strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailExists
		}
	}
	r.s.internalUsers[u.ID] = cloneInternalUser(u)
	return nil
}

// ListByCompany lista paginada por nombre.
func (r *InternalUserRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.InternalUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.InternalUser
	for _, u := range r.s.internalUsers {
		if u.CompanyID == companyID {
			all = append(all, cloneInternalUser(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []*entity.InternalUser{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

// Delete elimina un usuario interno.
func (r *InternalUserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.internalUsers, id)
	return nil
}

// CountByProfile usuarios internos que referencian el perfil.
func (r *InternalUserRepo) CountByProfile(_ context.Context, profileID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, u := range r.s.internalUsers {
		if u.ProfileID == profileID {
			n++
		}
	}
	return n, nil
}

// UserRepo cuentas de acceso en memoria.
type UserRepo struct {
	s *Store
}

// Create persiste una cuenta; domain.ErrEmailExists si el email ya existe.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// GetByEmail busca sin distinguir mayúsculas; (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
