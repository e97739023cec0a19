package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/coupon"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

var (
	_ repository.CouponRepository     = (*CouponRepo)(nil)
	_ repository.RedemptionRepository = (*RedemptionRepo)(nil)
)

// CouponRepo implementación en memoria de repository.CouponRepository.
// Guarda y devuelve copias: quien llama nunca comparte punteros con el almacén.
type CouponRepo struct {
	s *Store
}

func cloneCoupon(c *entity.Coupon) *entity.Coupon {
	cp := *c
	cp.ApplicableCourses = slices.Clone(c.ApplicableCourses)
	if c.MinPurchase != nil {
		m := *c.MinPurchase
		cp.MinPurchase = &m
	}
	return &cp
}

func sortedCoupons(list []*entity.Coupon) []*entity.Coupon {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

// List devuelve todos los cupones por fecha de creación.
func (r *CouponRepo) List(_ context.Context) ([]*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Coupon, 0, len(r.s.coupons))
	for _, c := range r.s.coupons {
		out = append(out, cloneCoupon(c))
	}
	return sortedCoupons(out), nil
}

// ListByCompany cupones de tipo company del tenant, del más antiguo al más reciente.
func (r *CouponRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Coupon
	for _, c := range r.s.coupons {
		if c.Type == entity.CouponTypeCompany && c.CompanyID == companyID {
			out = append(out, cloneCoupon(c))
		}
	}
	return sortedCoupons(out), nil
}

// GetByID obtiene un cupón por ID; (nil, nil) si no existe.
func (r *CouponRepo) GetByID(_ context.Context, id string) (*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, nil
	}
	return cloneCoupon(c), nil
}

// GetByCode busca por código sin distinguir mayúsculas vía el índice secundario.
func (r *CouponRepo) GetByCode(_ context.Context, code string) (*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.codeIndex[coupon.NormalizeCode(code)]
	if !ok {
		return nil, nil
	}
	return cloneCoupon(r.s.coupons[id]), nil
}

// Create persiste un cupón nuevo; domain.ErrDuplicate si el ID o el código ya existen.
func (r *CouponRepo) Create(_ context.Context, c *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := coupon.NormalizeCode(c.Code)
	if _, ok := r.s.coupons[c.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.codeIndex[key]; ok {
		return domain.ErrDuplicate
	}
	r.s.coupons[c.ID] = cloneCoupon(c)
	r.s.codeIndex[key] = c.ID
	return nil
}

// Update reemplaza la definición del cupón y mantiene el índice de códigos.
func (r *CouponRepo) Update(_ context.Context, c *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.coupons[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	oldKey, newKey := coupon.NormalizeCode(current.Code), coupon.NormalizeCode(c.Code)
	if oldKey != newKey {
		if owner, taken := r.s.codeIndex[newKey]; taken && owner != c.ID {
			return domain.ErrDuplicate
		}
		delete(r.s.codeIndex, oldKey)
		r.s.codeIndex[newKey] = c.ID
	}
	next := cloneCoupon(c)
	next.UsedCount = current.UsedCount // solo IncrementUsage lo modifica
	r.s.coupons[c.ID] = next
	return nil
}

// Delete elimina el cupón y su entrada en el índice.
func (r *CouponRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return nil
	}
	delete(r.s.codeIndex, coupon.NormalizeCode(c.Code))
	delete(r.s.coupons, id)
	return nil
}

// IncrementUsage suma un uso bajo el mutex solo si queda cuota.
func (r *CouponRepo) IncrementUsage(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if c.UsedCount >= c.MaxUses {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

// RedemptionRepo implementación en memoria de repository.RedemptionRepository.
type RedemptionRepo struct {
	s *Store
}

// Create registra una redención; domain.ErrDuplicate si el cupón ya se aplicó a la orden.
func (r *RedemptionRepo) Create(_ context.Context, red *entity.CouponRedemption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.redemptions {
		if other.CouponID == red.CouponID && other.OrderID == red.OrderID {
			return domain.ErrDuplicate
		}
	}
	cp := *red
	r.s.redemptions = append(r.s.redemptions, &cp)
	return nil
}

// ListByCoupon redenciones de un cupón en orden de registro.
func (r *RedemptionRepo) ListByCoupon(_ context.Context, couponID string) ([]*entity.CouponRedemption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CouponRedemption
	for _, red := range r.s.redemptions {
		if red.CouponID == couponID {
			cp := *red
			out = append(out, &cp)
		}
	}
	return out, nil
}
