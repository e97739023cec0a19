package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/coupon"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/repository"
	"github.com/jhoicas/capacita-api/pkg/logger"
)

// errQuotaLost otra redención consumió el último uso entre la validación y el incremento.
var errQuotaLost = errors.New("cuota del cupón agotada durante la redención")

// CouponEngine valida cupones contra un carrito y los redime.
// Validate y CheckCompanyCoupon solo leen; Apply es la única operación que muta estado.
type CouponEngine struct {
	coupons repository.CouponRepository
	tx      RedemptionTxRunner
	log     *logger.Logger
	now     Clock
	loc     *time.Location
}

// NewCouponEngine construye el motor inyectando el repositorio y el runner transaccional.
func NewCouponEngine(coupons repository.CouponRepository, tx RedemptionTxRunner, log *logger.Logger) *CouponEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &CouponEngine{coupons: coupons, tx: tx, log: log.Component("coupons"), now: time.Now, loc: time.UTC}
}

// WithClock fija el reloj usado para la vigencia (tests).
func (e *CouponEngine) WithClock(now Clock) *CouponEngine {
	e.now = now
	return e
}

// WithLocation fija la zona del negocio: la vigencia se mide en días calendario de esa zona.
func (e *CouponEngine) WithLocation(loc *time.Location) *CouponEngine {
	if loc != nil {
		e.loc = loc
	}
	return e
}

func (e *CouponEngine) today() time.Time {
	return e.now().In(e.loc)
}

// Validate evalúa el cupón sin consumirlo. Los fallos de regla vienen en la respuesta;
// el error se reserva para entrada inválida (domain.ErrInvalidInput) y fallos de persistencia.
func (e *CouponEngine) Validate(ctx context.Context, in dto.ValidateCouponRequest) (*dto.CouponValidationResponse, error) {
	res, err := e.evaluate(ctx, in)
	if err != nil {
		return nil, err
	}
	return &dto.CouponValidationResponse{
		IsValid:         res.Valid,
		Reason:          string(res.Reason),
		Message:         res.Message,
		Coupon:          toCouponResponse(res.Coupon),
		AppliedDiscount: res.Discount,
	}, nil
}

// Apply revalida y, si el cupón es válido, consume exactamente un uso y registra la redención
// para la orden. El incremento es condicional (used_count < max_uses) así que dos redenciones
// concurrentes nunca superan la cuota: la que pierde recibe el mensaje de límite de usos.
func (e *CouponEngine) Apply(ctx context.Context, in dto.ApplyCouponRequest) (*dto.ApplyCouponResponse, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id é obrigatório", domain.ErrInvalidInput)
	}
	res, err := e.evaluate(ctx, in.ValidateCouponRequest)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return &dto.ApplyCouponResponse{
			Reason:          string(res.Reason),
			Message:         res.Message,
			AppliedDiscount: decimal.Zero,
		}, nil
	}

	c := res.Coupon
	err = e.tx.RunRedemption(ctx, func(coupons repository.CouponRepository, redemptions repository.RedemptionRepository) error {
		ok, err := coupons.IncrementUsage(ctx, c.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errQuotaLost
		}
		return redemptions.Create(ctx, &entity.CouponRedemption{
			ID:        uuid.New().String(),
			CouponID:  c.ID,
			UserID:    in.UserID,
			OrderID:   in.OrderID,
			Discount:  res.Discount,
			CreatedAt: e.now(),
		})
	})
	if errors.Is(err, errQuotaLost) {
		e.log.Warn().Str("coupon_id", c.ID).Str("order_id", in.OrderID).Msg("redención concurrente agotó el cupón")
		return &dto.ApplyCouponResponse{
			Reason:          string(coupon.ReasonUsageExhausted),
			Message:         coupon.MsgUsageExhausted,
			AppliedDiscount: decimal.Zero,
		}, nil
	}
	if err != nil {
		e.log.Error().Err(err).Str("coupon_id", c.ID).Str("order_id", in.OrderID).Msg("redimir cupón")
		return nil, fmt.Errorf("aplicar cupón: %w", err)
	}

	newTotal := coupon.NewTotal(in.TotalAmount, res.Discount)
	e.log.Info().
		Str("coupon_id", c.ID).
		Str("code", c.Code).
		Str("user_id", in.UserID).
		Str("order_id", in.OrderID).
		Str("discount", res.Discount.String()).
		Msg("cupón aplicado")

	return &dto.ApplyCouponResponse{
		Success:         true,
		Reason:          string(coupon.ReasonOK),
		Message:         res.Message,
		AppliedDiscount: res.Discount,
		NewTotal:        &newTotal,
	}, nil
}

// CheckCompanyCoupon devuelve el primer cupón permanente vigente de la empresa, o nil si no hay.
func (e *CouponEngine) CheckCompanyCoupon(ctx context.Context, companyID string) (*dto.CouponResponse, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company_id é obrigatório", domain.ErrInvalidInput)
	}
	list, err := e.coupons.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar cupones de empresa: %w", err)
	}
	now := e.today()
	for _, c := range list {
		if coupon.StandingCompanyCoupon(c, companyID, now) {
			return toCouponResponse(c), nil
		}
	}
	return nil, nil
}

func (e *CouponEngine) evaluate(ctx context.Context, in dto.ValidateCouponRequest) (coupon.Result, error) {
	if len(in.CourseIDs) == 0 {
		return coupon.Result{}, fmt.Errorf("%w: course_ids não pode estar vazio", domain.ErrInvalidInput)
	}
	if in.TotalAmount.IsNegative() {
		return coupon.Result{}, fmt.Errorf("%w: total_amount não pode ser negativo", domain.ErrInvalidInput)
	}

	var c *entity.Coupon
	if code := coupon.NormalizeCode(in.Code); code != "" {
		found, err := e.coupons.GetByCode(ctx, code)
		if err != nil {
			return coupon.Result{}, fmt.Errorf("buscar cupón: %w", err)
		}
		c = found
	}

	return coupon.Evaluate(c, coupon.Cart{
		UserID:    in.UserID,
		CourseIDs: in.CourseIDs,
		Total:     in.TotalAmount,
		CompanyID: in.CompanyID,
	}, e.today()), nil
}
