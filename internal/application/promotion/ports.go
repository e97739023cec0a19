package promotion

import (
	"context"
	"time"

	"github.com/jhoicas/capacita-api/internal/domain/repository"
)

// RedemptionTxRunner ejecuta fn en una transacción con los repos de cupones y redenciones.
// Si fn retorna error se revierte todo: el incremento de uso y el registro de la redención.
type RedemptionTxRunner interface {
	RunRedemption(ctx context.Context, fn func(
		coupons repository.CouponRepository,
		redemptions repository.RedemptionRepository,
	) error) error
}

// Clock permite fijar el instante de evaluación en tests.
type Clock func() time.Time
