package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
	"github.com/jhoicas/capacita-api/pkg/logger"
)

// seedFile formato del archivo YAML de datos iniciales.
type seedFile struct {
	Profiles      []seedProfile      `yaml:"profiles"`
	Users         []seedUser         `yaml:"users"`
	InternalUsers []seedInternalUser `yaml:"internal_users"`
	Coupons       []seedCoupon       `yaml:"coupons"`
}

type seedProfile struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

type seedUser struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
	CompanyID string `yaml:"company_id"`
	Profile   string `yaml:"profile"` // nombre de un perfil del mismo archivo o existente
}

type seedInternalUser struct {
	CompanyID     string   `yaml:"company_id"`
	Name          string   `yaml:"name"`
	Email         string   `yaml:"email"`
	Profile       string   `yaml:"profile"`
	Branches      []string `yaml:"branches"`
	HasFullAccess bool     `yaml:"has_full_access"`
}

type seedCoupon struct {
	Code              string   `yaml:"code"`
	Description       string   `yaml:"description"`
	Type              string   `yaml:"type"`
	DiscountType      string   `yaml:"discount_type"`
	DiscountValue     string   `yaml:"discount_value"`
	CompanyID         string   `yaml:"company_id"`
	MaxUses           int      `yaml:"max_uses"`
	ValidFrom         string   `yaml:"valid_from"`
	ValidUntil        string   `yaml:"valid_until"`
	MinPurchase       string   `yaml:"min_purchase"`
	ApplicableCourses []string `yaml:"applicable_courses"`
}

// summary conteo de lo creado y lo omitido por existir.
type summary struct {
	Created int
	Skipped int
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsear %s: %w", path, err)
	}
	return &f, nil
}

// seeder aplica un seedFile pasando por los casos de uso, así los datos cumplen
// las mismas validaciones que la API. Es idempotente: lo existente se omite.
type seeder struct {
	users         repository.UserRepository
	profileUC     *access.ProfileUseCase
	internalUC    *access.InternalUserUseCase
	couponAdminUC *promotion.CouponAdminUseCase
	log           *logger.Logger
	bcryptCost    int
}

func (s *seeder) run(ctx context.Context, f *seedFile) (summary, error) {
	var sum summary
	profileIDs, err := s.seedProfiles(ctx, f.Profiles, &sum)
	if err != nil {
		return sum, err
	}
	for _, u := range f.Users {
		if err := s.seedUser(ctx, u, profileIDs, &sum); err != nil {
			return sum, fmt.Errorf("usuario %s: %w", u.Email, err)
		}
	}
	for _, u := range f.InternalUsers {
		if err := s.seedInternalUser(ctx, u, profileIDs, &sum); err != nil {
			return sum, fmt.Errorf("usuario interno %s: %w", u.Email, err)
		}
	}
	for _, c := range f.Coupons {
		if err := s.seedCoupon(ctx, c, &sum); err != nil {
			return sum, fmt.Errorf("cupón %s: %w", c.Code, err)
		}
	}
	return sum, nil
}

// seedProfiles crea los perfiles que no existan (por nombre) y devuelve nombre -> id.
func (s *seeder) seedProfiles(ctx context.Context, profiles []seedProfile, sum *summary) (map[string]string, error) {
	existing, err := s.profileUC.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(existing)+len(profiles))
	for _, p := range existing {
		ids[strings.ToLower(p.Name)] = p.ID
	}
	for _, p := range profiles {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, ok := ids[key]; ok {
			sum.Skipped++
			continue
		}
		created, err := s.profileUC.Create(ctx, dto.CreateProfileRequest{
			Name: p.Name, Description: p.Description, Permissions: p.Permissions,
		})
		if err != nil {
			return nil, fmt.Errorf("perfil %s: %w", p.Name, err)
		}
		ids[key] = created.ID
		sum.Created++
		s.log.Info().Str("profile", created.Name).Strs("permissions", created.Permissions).Msg("perfil creado")
	}
	return ids, nil
}

func profileRef(ids map[string]string, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if name == permission.StudentProfileID {
		return name, nil
	}
	id, ok := ids[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: perfil %q não existe", domain.ErrInvalidInput, name)
	}
	return id, nil
}

func (s *seeder) seedUser(ctx context.Context, u seedUser, profileIDs map[string]string, sum *summary) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if !permission.ValidRole(permission.Role(u.Role)) {
		return fmt.Errorf("%w: papel %q desconhecido", domain.ErrInvalidInput, u.Role)
	}
	if len(u.Password) < 8 {
		return fmt.Errorf("%w: a senha deve ter pelo menos 8 caracteres", domain.ErrInvalidInput)
	}
	found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if found != nil {
		sum.Skipped++
		return nil
	}
	profileID, err := profileRef(profileIDs, u.Profile)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
	if err != nil {
		return err
	}
	now := time.Now()
	if err := s.users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    u.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         u.Name,
		Role:         u.Role,
		ProfileID:    profileID,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}
	sum.Created++
	s.log.Info().Str("email", email).Str("role", u.Role).Str("profile_id", profileID).Msg("usuario creado")
	return nil
}

func (s *seeder) seedInternalUser(ctx context.Context, u seedInternalUser, profileIDs map[string]string, sum *summary) error {
	profileID, err := profileRef(profileIDs, u.Profile)
	if err != nil {
		return err
	}
	_, err = s.internalUC.Create(ctx, u.CompanyID, dto.SaveInternalUserRequest{
		Name:               u.Name,
		Email:              u.Email,
		ProfileID:          profileID,
		AccessibleBranches: u.Branches,
		HasFullAccess:      u.HasFullAccess,
	})
	if errors.Is(err, domain.ErrEmailExists) {
		sum.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	sum.Created++
	return nil
}

func (s *seeder) seedCoupon(ctx context.Context, c seedCoupon, sum *summary) error {
	value, err := decimal.NewFromString(c.DiscountValue)
	if err != nil {
		return fmt.Errorf("%w: discount_value %q", domain.ErrInvalidInput, c.DiscountValue)
	}
	in := dto.CreateCouponRequest{
		Code:              c.Code,
		Description:       c.Description,
		Type:              c.Type,
		DiscountType:      c.DiscountType,
		DiscountValue:     value,
		CompanyID:         c.CompanyID,
		MaxUses:           c.MaxUses,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
		ApplicableCourses: c.ApplicableCourses,
	}
	if c.MinPurchase != "" {
		minPurchase, err := decimal.NewFromString(c.MinPurchase)
		if err != nil {
			return fmt.Errorf("%w: min_purchase %q", domain.ErrInvalidInput, c.MinPurchase)
		}
		in.MinPurchase = &minPurchase
	}
	created, err := s.couponAdminUC.Create(ctx, in)
	if errors.Is(err, domain.ErrDuplicate) {
		sum.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	sum.Created++
	s.log.Info().Str("code", created.Code).Int("max_uses", created.MaxUses).Msg("cupón creado")
	return nil
}
