package promotion_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/coupon"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/infrastructure/memory"
)

var fixedNow = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, store *memory.Store, c *entity.Coupon) {
	t.Helper()
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.ValidUntil.IsZero() {
		c.ValidUntil = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	c.IsActive = true
	require.NoError(t, store.Coupons().Create(context.Background(), c))
}

func newEngine(store *memory.Store) *promotion.CouponEngine {
	return promotion.NewCouponEngine(store.Coupons(), store, nil).
		WithClock(func() time.Time { return fixedNow })
}

func cart(code, total string) dto.ValidateCouponRequest {
	return dto.ValidateCouponRequest{
		Code:        code,
		UserID:      "u-1",
		CourseIDs:   []string{"curso-nr35"},
		TotalAmount: dec(total),
	}
}

func TestValidate_Welcome20(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, &entity.Coupon{
		ID: "c-1", Code: "WELCOME20", Type: entity.CouponTypeIndividual,
		DiscountType: entity.DiscountPercentage, DiscountValue: dec("20"), MaxUses: 100,
	})

	res, err := newEngine(store).Validate(context.Background(), cart("welcome20", "500"))
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, coupon.MsgApplied, res.Message)
	assert.True(t, dec("100").Equal(res.AppliedDiscount))
	require.NotNil(t, res.Coupon)
	assert.Equal(t, "WELCOME20", res.Coupon.Code)
	assert.Equal(t, 0, res.Coupon.UsedCount)
}

func TestValidate_CodigoInexistenteYVacio(t *testing.T) {
	e := newEngine(memory.NewStore())
	for _, code := range []string{"NOPE", "", "   "} {
		res, err := e.Validate(context.Background(), cart(code, "100"))
		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Equal(t, string(coupon.ReasonNotFound), res.Reason)
		assert.Equal(t, coupon.MsgNotFound, res.Message)
		assert.True(t, res.AppliedDiscount.IsZero())
	}
}

func TestValidate_EntradaInvalida(t *testing.T) {
	e := newEngine(memory.NewStore())
	in := cart("X", "100")
	in.CourseIDs = nil
	_, err := e.Validate(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Validate(context.Background(), cart("X", "-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_FijoConsumeUnUso(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Coupon{
		ID: "c-1", Code: "FIXDESC50", Type: entity.CouponTypeIndividual,
		DiscountType: entity.DiscountFixed, DiscountValue: dec("50"), MaxUses: 3,
	})

	res, err := newEngine(store).Apply(ctx, dto.ApplyCouponRequest{ValidateCouponRequest: cart("FIXDESC50", "30"), OrderID: "o-1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, dec("30").Equal(res.AppliedDiscount))
	require.NotNil(t, res.NewTotal)
	assert.True(t, res.NewTotal.IsZero())

	c, _ := store.Coupons().GetByID(ctx, "c-1")
	assert.Equal(t, 1, c.UsedCount)
	reds, _ := store.Redemptions().ListByCoupon(ctx, "c-1")
	require.Len(t, reds, 1)
	assert.Equal(t, "o-1", reds[0].OrderID)
	assert.Equal(t, fixedNow, reds[0].CreatedAt)
}

func TestApply_InvalidoNoMuta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Coupon{
		ID: "c-1", Code: "MIN200", Type: entity.CouponTypeIndividual,
		DiscountType: entity.DiscountFixed, DiscountValue: dec("20"), MaxUses: 3,
		MinPurchase: func() *decimal.Decimal { d := dec("200"); return &d }(),
	})

	res, err := newEngine(store).Apply(ctx, dto.ApplyCouponRequest{ValidateCouponRequest: cart("MIN200", "100"), OrderID: "o-1"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Valor mínimo de compra para este cupom: R$ 200,00", res.Message)
	assert.Nil(t, res.NewTotal)

	c, _ := store.Coupons().GetByID(ctx, "c-1")
	assert.Equal(t, 0, c.UsedCount)
}

func TestApply_RequiereOrden(t *testing.T) {
	_, err := newEngine(memory.NewStore()).Apply(context.Background(), dto.ApplyCouponRequest{ValidateCouponRequest: cart("X", "10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_ConcurrenteRespetaMaxUses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Coupon{
		ID: "c-1", Code: "LAST5", Type: entity.CouponTypeIndividual,
		DiscountType: entity.DiscountPercentage, DiscountValue: dec("10"), MaxUses: 5,
	})
	e := newEngine(store)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, exhausted := 0, 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Apply(ctx, dto.ApplyCouponRequest{ValidateCouponRequest: cart("LAST5", "100"), OrderID: fmt.Sprintf("o-%d", i)})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Success {
				success++
			} else if res.Reason == string(coupon.ReasonUsageExhausted) {
				exhausted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, success)
	assert.Equal(t, 35, exhausted)
	c, _ := store.Coupons().GetByID(ctx, "c-1")
	assert.Equal(t, 5, c.UsedCount)
	reds, _ := store.Redemptions().ListByCoupon(ctx, "c-1")
	assert.Len(t, reds, 5)
}

func TestCheckCompanyCoupon(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Coupon{
		ID: "c-old", Code: "EXPIRED", Type: entity.CouponTypeCompany, CompanyID: "emp-1",
		DiscountType: entity.DiscountPercentage, DiscountValue: dec("5"), MaxUses: 10,
		ValidFrom:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	seed(t, store, &entity.Coupon{
		ID: "c-emp", Code: "ACME15", Type: entity.CouponTypeCompany, CompanyID: "emp-1",
		DiscountType: entity.DiscountPercentage, DiscountValue: dec("15"), MaxUses: 10,
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	e := newEngine(store)

	got, err := e.CheckCompanyCoupon(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ACME15", got.Code)

	none, err := e.CheckCompanyCoupon(ctx, "emp-2")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = e.CheckCompanyCoupon(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := e.Validate(ctx, cart("ACME15", "100"))
	require.NoError(t, err)
	assert.Equal(t, string(coupon.ReasonCompanyOnly), res.Reason)
}

func TestApply_MismaOrdenDosVecesSeRevierte(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Coupon{
		ID: "c-1", Code: "ONCE", Type: entity.CouponTypeIndividual,
		DiscountType: entity.DiscountFixed, DiscountValue: dec("10"), MaxUses: 5,
	})
	e := newEngine(store)
	req := dto.ApplyCouponRequest{ValidateCouponRequest: cart("ONCE", "100"), OrderID: "o-1"}

	_, err := e.Apply(ctx, req)
	require.NoError(t, err)
	_, err = e.Apply(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	c, _ := store.Coupons().GetByID(ctx, "c-1")
	assert.Equal(t, 1, c.UsedCount)
}

func TestValidate_VigenciaEnZonaDelNegocio(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := promotion.NewCouponAdminUseCase(store.Coupons(), store.Redemptions())
	_, err := admin.Create(ctx, dto.CreateCouponRequest{
		Code: "NATAL", Type: entity.CouponTypeIndividual,
		DiscountType: entity.DiscountPercentage, DiscountValue: dec("10"), MaxUses: 10,
		ValidFrom: "2023-12-01", ValidUntil: "2023-12-31",
	})
	require.NoError(t, err)

	saoPaulo := time.FixedZone("BRT", -3*60*60)
	at := func(instant time.Time) *dto.CouponValidationResponse {
		e := promotion.NewCouponEngine(store.Coupons(), store, nil).
			WithLocation(saoPaulo).
			WithClock(func() time.Time { return instant })
		res, err := e.Validate(ctx, cart("NATAL", "100"))
		require.NoError(t, err)
		return res
	}

	res := at(time.Date(2023, 12, 31, 22, 0, 0, 0, saoPaulo))
	assert.True(t, res.IsValid, "último día, 22h locales")

	res = at(time.Date(2024, 1, 1, 0, 0, 0, 0, saoPaulo))
	assert.Equal(t, string(coupon.ReasonOutOfWindow), res.Reason, "medianoche local posterior")

	res = at(time.Date(2023, 11, 30, 22, 0, 0, 0, saoPaulo))
	assert.Equal(t, string(coupon.ReasonOutOfWindow), res.Reason, "víspera local del primer día")

	res = at(time.Date(2023, 12, 1, 0, 0, 0, 0, saoPaulo))
	assert.True(t, res.IsValid, "medianoche local del primer día")

	// El instante se expresa en UTC; el motor lo lleva a la zona del negocio.
	res = at(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC))
	assert.True(t, res.IsValid, "01h UTC del 1 de enero son 22h del 31 en São Paulo")
}
