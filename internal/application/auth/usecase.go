package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
	"github.com/jhoicas/capacita-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// selfServiceRoles roles que se pueden registrar sin intervención de un administrador.
var selfServiceRoles = map[permission.Role]bool{
	permission.RoleAluno:   true,
	permission.RoleEmpresa: true,
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	resolver *access.Resolver
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, resolver *access.Resolver, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, resolver: resolver, jwtCfg: jwtCfg}
}

// RegisterUser crea una cuenta de alumno o empresa con password bcrypt.
// Devuelve domain.ErrEmailExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: e-mail inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: a senha deve ter pelo menos 8 caracteres", domain.ErrInvalidInput)
	}
	role := permission.Role(in.Role)
	if role == "" {
		role = permission.RoleAluno
	}
	if !permission.ValidRole(role) {
		return nil, fmt.Errorf("%w: papel %q desconhecido", domain.ErrInvalidInput, in.Role)
	}
	if !selfServiceRoles[role] {
		return nil, domain.ErrForbidden
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         string(role),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user, permission.RolePermissions(role)), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario con sus permisos efectivos.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	perms, err := uc.resolver.Permissions(ctx, access.Subject{UserID: user.ID, Role: user.Role, ProfileID: user.ProfileID})
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Subject{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		ProfileID: user.ProfileID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user, perms),
	}, nil
}

func toUserResponse(u *entity.User, perms []string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		ProfileID:   u.ProfileID,
		Status:      u.Status,
		Permissions: perms,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
