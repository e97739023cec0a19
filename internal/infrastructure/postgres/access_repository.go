package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

var (
	_ repository.PermissionProfileRepository = (*ProfileRepo)(nil)
	_ repository.InternalUserRepository      = (*InternalUserRepo)(nil)
)

// ProfileRepo perfiles de permisos; las etiquetas se guardan en una columna TEXT[].
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// List perfiles ordenados por nombre.
func (r *ProfileRepo) List(ctx context.Context) ([]*entity.PermissionProfile, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM permission_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.PermissionProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID (nil, nil) si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.PermissionProfile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM permission_profiles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Create persiste un perfil.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.PermissionProfile) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO permission_profiles (id, name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, orEmpty(p.Permissions), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// Update reemplaza nombre, descripción y permisos.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.PermissionProfile) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE permission_profiles SET name = $2, description = $3, permissions = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Name, p.Description, orEmpty(p.Permissions), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete domain.ErrConflict si un usuario interno aún referencia el perfil (FK RESTRICT).
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM permission_profiles WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func scanProfile(row pgxScanner) (*entity.PermissionProfile, error) {
	var p entity.PermissionProfile
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Permissions, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

const internalUserColumns = `
	id, company_id, name, email, profile_id, accessible_branches, has_full_access,
	is_active, created_at, updated_at`

// InternalUserRepo usuarios internos sobre PostgreSQL.
type InternalUserRepo struct {
	q Querier
}

// NewInternalUserRepository construye el adaptador.
func NewInternalUserRepository(q Querier) *InternalUserRepo {
	return &InternalUserRepo{q: q}
}

// Create domain.ErrEmailExists si el email ya está en uso.
func (r *InternalUserRepo) Create(ctx context.Context, u *entity.InternalUser) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO internal_users (id, company_id, name, email, profile_id, accessible_branches,
			has_full_access, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.CompanyID, u.Name, u.Email, u.ProfileID, orEmpty(u.AccessibleBranches),
		u.HasFullAccess, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapInternalUserErr("insert internal user", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *InternalUserRepo) GetByID(ctx context.Context, id string) (*entity.InternalUser, error) {
	u, err := scanInternalUser(r.q.QueryRow(ctx, `SELECT `+internalUserColumns+` FROM internal_users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get internal user: %w", err)
	}
	return u, nil
}

// Update reemplaza los datos editables.
func (r *InternalUserRepo) Update(ctx context.Context, u *entity.InternalUser) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE internal_users SET name = $2, email = $3, profile_id = $4, accessible_branches = $5,
			has_full_access = $6, is_active = $7, updated_at = $8
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.ProfileID, orEmpty(u.AccessibleBranches),
		u.HasFullAccess, u.IsActive, u.UpdatedAt)
	if err != nil {
		return mapInternalUserErr("update internal user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista paginada por nombre.
func (r *InternalUserRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.InternalUser, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+internalUserColumns+` FROM internal_users
		WHERE company_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list internal users: %w", err)
	}
	defer rows.Close()
	list := []*entity.InternalUser{}
	for rows.Next() {
		u, err := scanInternalUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan internal user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete elimina un usuario interno.
func (r *InternalUserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM internal_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete internal user: %w", err)
	}
	return nil
}

// CountByProfile usuarios internos que referencian el perfil.
func (r *InternalUserRepo) CountByProfile(ctx context.Context, profileID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM internal_users WHERE profile_id = $1`, profileID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count internal users by profile: %w", err)
	}
	return n, nil
}

func scanInternalUser(row pgxScanner) (*entity.InternalUser, error) {
	var u entity.InternalUser
	err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.ProfileID, &u.AccessibleBranches,
		&u.HasFullAccess, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func mapInternalUserErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrEmailExists
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: o perfil não existe", domain.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
