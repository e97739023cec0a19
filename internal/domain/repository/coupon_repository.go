package repository

import (
	"context"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

// CouponRepository define el puerto de persistencia para Coupon (DIP).
// Las búsquedas devuelven (nil, nil) cuando el cupón no existe.
type CouponRepository interface {
	List(ctx context.Context) ([]*entity.Coupon, error)
	// ListByCompany cupones de tipo company del tenant, del más antiguo al más reciente.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Coupon, error)
	GetByID(ctx context.Context, id string) (*entity.Coupon, error)
	// GetByCode busca sin distinguir mayúsculas/minúsculas.
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	Create(ctx context.Context, coupon *entity.Coupon) error
	Update(ctx context.Context, coupon *entity.Coupon) error
	Delete(ctx context.Context, id string) error
	// IncrementUsage suma 1 a used_count solo si used_count < max_uses (update condicional atómico).
	// Devuelve false si la cuota ya estaba agotada.
	IncrementUsage(ctx context.Context, id string) (bool, error)
}

// RedemptionRepository registra las aplicaciones de cupones.
type RedemptionRepository interface {
	Create(ctx context.Context, r *entity.CouponRedemption) error
	ListByCoupon(ctx context.Context, couponID string) ([]*entity.CouponRedemption, error)
}
