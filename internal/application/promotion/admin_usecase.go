package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/coupon"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

// CouponAdminUseCase CRUD de cupones para administradores.
type CouponAdminUseCase struct {
	coupons     repository.CouponRepository
	redemptions repository.RedemptionRepository
}

// NewCouponAdminUseCase construye el caso de uso.
func NewCouponAdminUseCase(coupons repository.CouponRepository, redemptions repository.RedemptionRepository) *CouponAdminUseCase {
	return &CouponAdminUseCase{coupons: coupons, redemptions: redemptions}
}

// List devuelve todos los cupones.
func (uc *CouponAdminUseCase) List(ctx context.Context) ([]*dto.CouponResponse, error) {
	list, err := uc.coupons.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CouponResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCouponResponse(c))
	}
	return out, nil
}

// GetByID obtiene un cupón; domain.ErrNotFound si no existe.
func (uc *CouponAdminUseCase) GetByID(ctx context.Context, id string) (*dto.CouponResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCouponResponse(c), nil
}

// Create crea un cupón. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *CouponAdminUseCase) Create(ctx context.Context, in dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	from, err := parseDate("valid_from", in.ValidFrom)
	if err != nil {
		return nil, err
	}
	until, err := parseDate("valid_until", in.ValidUntil)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	c := &entity.Coupon{
		ID:                uuid.New().String(),
		Code:              coupon.NormalizeCode(in.Code),
		Description:       in.Description,
		Type:              in.Type,
		DiscountType:      in.DiscountType,
		DiscountValue:     in.DiscountValue,
		CompanyID:         in.CompanyID,
		MaxUses:           in.MaxUses,
		ValidFrom:         from,
		ValidUntil:        until,
		MinPurchase:       in.MinPurchase,
		ApplicableCourses: in.ApplicableCourses,
		IsActive:          active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := coupon.ValidateDefinition(c); err != nil {
		return nil, err
	}
	existing, err := uc.coupons.GetByCode(ctx, c.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.coupons.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCouponResponse(c), nil
}

// Update aplica una actualización parcial y revalida el cupón completo antes de guardar.
func (uc *CouponAdminUseCase) Update(ctx context.Context, id string, in dto.UpdateCouponRequest) (*dto.CouponResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := coupon.NormalizeCode(*in.Code)
		if code != c.Code {
			other, err := uc.coupons.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, domain.ErrDuplicate
			}
		}
		c.Code = code
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.DiscountType != nil {
		c.DiscountType = *in.DiscountType
	}
	if in.DiscountValue != nil {
		c.DiscountValue = *in.DiscountValue
	}
	if in.CompanyID != nil {
		c.CompanyID = *in.CompanyID
	}
	if in.MaxUses != nil {
		c.MaxUses = *in.MaxUses
	}
	if in.ValidFrom != nil {
		if c.ValidFrom, err = parseDate("valid_from", *in.ValidFrom); err != nil {
			return nil, err
		}
	}
	if in.ValidUntil != nil {
		if c.ValidUntil, err = parseDate("valid_until", *in.ValidUntil); err != nil {
			return nil, err
		}
	}
	if in.ClearMinPurchase {
		c.MinPurchase = nil
	} else if in.MinPurchase != nil {
		c.MinPurchase = in.MinPurchase
	}
	if in.ApplicableCourses != nil {
		c.ApplicableCourses = *in.ApplicableCourses
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := coupon.ValidateDefinition(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.coupons.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCouponResponse(c), nil
}

// Delete elimina un cupón; domain.ErrNotFound si no existe.
func (uc *CouponAdminUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.coupons.Delete(ctx, id)
}

// Redemptions lista las redenciones registradas de un cupón.
func (uc *CouponAdminUseCase) Redemptions(ctx context.Context, id string) ([]dto.RedemptionResponse, error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.redemptions.ListByCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RedemptionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRedemptionResponse(r))
	}
	return out, nil
}

func (uc *CouponAdminUseCase) load(ctx context.Context, id string) (*entity.Coupon, error) {
	c, err := uc.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cupón: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
