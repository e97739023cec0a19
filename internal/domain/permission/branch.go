package permission

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

// BranchScope filiales sobre las que un usuario interno puede actuar.
// All = true significa todas las filiales de su empresa y Branches queda vacío.
type BranchScope struct {
	All      bool     `json:"all"`
	Branches []string `json:"branches"`
}

// ResolveBranches sin acceso total el alcance es exactamente AccessibleBranches.
func ResolveBranches(u *entity.InternalUser) BranchScope {
	if u.HasFullAccess {
		return BranchScope{All: true, Branches: []string{}}
	}
	branches := slices.Clone(u.AccessibleBranches)
	slices.Sort(branches)
	return BranchScope{Branches: slices.Compact(branches)}
}

// ValidateInternalUser invariantes de guardado de un usuario interno.
// Sin acceso total debe tener al menos una filial; ningún id de filial puede estar en blanco.
func ValidateInternalUser(u *entity.InternalUser) error {
	if u.Name == "" || u.Email == "" {
		return fmt.Errorf("%w: nome e e-mail são obrigatórios", domain.ErrInvalidInput)
	}
	if u.ProfileID == "" {
		return fmt.Errorf("%w: profile_id é obrigatório", domain.ErrInvalidInput)
	}
	if slices.ContainsFunc(u.AccessibleBranches, func(b string) bool { return strings.TrimSpace(b) == "" }) {
		return fmt.Errorf("%w: accessible_branches não pode conter filial em branco", domain.ErrInvalidInput)
	}
	if !u.HasFullAccess && len(u.AccessibleBranches) == 0 {
		return fmt.Errorf("%w: sem acesso total é necessário informar ao menos uma filial", domain.ErrInvalidInput)
	}
	return nil
}
