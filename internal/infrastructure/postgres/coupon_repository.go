package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

var (
	_ repository.CouponRepository     = (*CouponRepo)(nil)
	_ repository.RedemptionRepository = (*RedemptionRepo)(nil)
)

const couponColumns = `
	id, code, description, type, discount_type, discount_value, COALESCE(company_id, ''),
	max_uses, used_count, valid_from, valid_until, min_purchase, applicable_courses,
	is_active, created_at, updated_at`

// CouponRepo implementación de CouponRepository sobre PostgreSQL (usable con pool o tx).
type CouponRepo struct {
	q Querier
}

// NewCouponRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCouponRepository(q Querier) *CouponRepo {
	return &CouponRepo{q: q}
}

// List todos los cupones por fecha de creación.
func (r *CouponRepo) List(ctx context.Context) ([]*entity.Coupon, error) {
	return r.list(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at, id`)
}

// ListByCompany cupones company del tenant, del más antiguo al más reciente.
func (r *CouponRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Coupon, error) {
	return r.list(ctx, `
		SELECT `+couponColumns+` FROM coupons
		WHERE type = 'company' AND company_id = $1
		ORDER BY created_at, id`, companyID)
}

// GetByID (nil, nil) si no existe.
func (r *CouponRepo) GetByID(ctx context.Context, id string) (*entity.Coupon, error) {
	c, err := scanCoupon(r.q.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon by id: %w", err)
	}
	return c, nil
}

// GetByCode usa el índice único sobre upper(code).
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	c, err := scanCoupon(r.q.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE upper(code) = upper($1)`, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon by code: %w", err)
	}
	return c, nil
}

// Create persiste un cupón; domain.ErrDuplicate si el código ya existe.
func (r *CouponRepo) Create(ctx context.Context, c *entity.Coupon) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO coupons (id, code, description, type, discount_type, discount_value, company_id,
			max_uses, used_count, valid_from, valid_until, min_purchase, applicable_courses,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.Code, c.Description, c.Type, c.DiscountType, c.DiscountValue, nullIfEmpty(c.CompanyID),
		c.MaxUses, c.UsedCount, c.ValidFrom, c.ValidUntil, c.MinPurchase, orEmpty(c.ApplicableCourses),
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// Update reescribe la definición. used_count no se toca: solo IncrementUsage lo modifica.
func (r *CouponRepo) Update(ctx context.Context, c *entity.Coupon) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE coupons SET code = $2, description = $3, type = $4, discount_type = $5,
			discount_value = $6, company_id = $7, max_uses = $8, valid_from = $9, valid_until = $10,
			min_purchase = $11, applicable_courses = $12, is_active = $13, updated_at = $14
		WHERE id = $1`,
		c.ID, c.Code, c.Description, c.Type, c.DiscountType,
		c.DiscountValue, nullIfEmpty(c.CompanyID), c.MaxUses, c.ValidFrom, c.ValidUntil,
		c.MinPurchase, orEmpty(c.ApplicableCourses), c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cupón (las redenciones se borran en cascada).
func (r *CouponRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	return nil
}

// IncrementUsage update condicional: la fila solo cambia si aún queda cuota.
func (r *CouponRepo) IncrementUsage(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE coupons SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1 AND used_count < max_uses`, id)
	if err != nil {
		return false, fmt.Errorf("increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check coupon: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

func (r *CouponRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Coupon, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()
	var list []*entity.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCoupon(row pgxScanner) (*entity.Coupon, error) {
	var c entity.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.Type, &c.DiscountType, &c.DiscountValue, &c.CompanyID,
		&c.MaxUses, &c.UsedCount, &c.ValidFrom, &c.ValidUntil, &c.MinPurchase, &c.ApplicableCourses,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RedemptionRepo registro de redenciones sobre PostgreSQL.
type RedemptionRepo struct {
	q Querier
}

// NewRedemptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRedemptionRepository(q Querier) *RedemptionRepo {
	return &RedemptionRepo{q: q}
}

// Create domain.ErrDuplicate si el cupón ya fue aplicado a la misma orden.
func (r *RedemptionRepo) Create(ctx context.Context, red *entity.CouponRedemption) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO coupon_redemptions (id, coupon_id, user_id, order_id, discount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		red.ID, red.CouponID, red.UserID, red.OrderID, red.Discount, red.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

// ListByCoupon redenciones del cupón en orden de registro.
func (r *RedemptionRepo) ListByCoupon(ctx context.Context, couponID string) ([]*entity.CouponRedemption, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, coupon_id, user_id, order_id, discount, created_at
		FROM coupon_redemptions WHERE coupon_id = $1 ORDER BY created_at, id`, couponID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CouponRedemption
	for rows.Next() {
		var red entity.CouponRedemption
		if err := rows.Scan(&red.ID, &red.CouponID, &red.UserID, &red.OrderID, &red.Discount, &red.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		list = append(list, &red)
	}
	return list, rows.Err()
}
