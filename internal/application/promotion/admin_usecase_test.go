package promotion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/infrastructure/memory"
)

func createReq() dto.CreateCouponRequest {
	return dto.CreateCouponRequest{
		Code:          "blackfriday",
		Type:          entity.CouponTypeIndividual,
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: dec("30"),
		MaxUses:       50,
		ValidFrom:     "2023-11-20",
		ValidUntil:    "2023-11-30",
	}
}

func TestAdmin_CreateNormalizaYRechazaDuplicado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := promotion.NewCouponAdminUseCase(store.Coupons(), store.Redemptions())

	created, err := uc.Create(ctx, createReq())
	require.NoError(t, err)
	assert.Equal(t, "BLACKFRIDAY", created.Code)
	assert.True(t, created.IsActive)
	assert.Equal(t, "2023-11-20", created.ValidFrom)
	assert.Equal(t, []string{}, created.ApplicableCourses)

	_, err = uc.Create(ctx, createReq())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAdmin_CreateValidaDefinicion(t *testing.T) {
	uc := promotion.NewCouponAdminUseCase(memory.NewStore().Coupons(), nil)

	bad := createReq()
	bad.DiscountValue = dec("150")
	_, err := uc.Create(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = createReq()
	bad.ValidFrom = "20/11/2023"
	_, err = uc.Create(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = createReq()
	bad.Type = entity.CouponTypeCompany
	_, err = uc.Create(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdmin_UpdateParcial(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := promotion.NewCouponAdminUseCase(store.Coupons(), store.Redemptions())
	created, err := uc.Create(ctx, createReq())
	require.NoError(t, err)

	maxUses := 80
	inactive := false
	updated, err := uc.Update(ctx, created.ID, dto.UpdateCouponRequest{MaxUses: &maxUses, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.MaxUses)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "BLACKFRIDAY", updated.Code)

	other := createReq()
	other.Code = "natal"
	_, err = uc.Create(ctx, other)
	require.NoError(t, err)
	code := "Natal"
	_, err = uc.Update(ctx, created.ID, dto.UpdateCouponRequest{Code: &code})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "missing", dto.UpdateCouponRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdmin_DeleteYRedemptions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := promotion.NewCouponAdminUseCase(store.Coupons(), store.Redemptions())
	created, err := uc.Create(ctx, createReq())
	require.NoError(t, err)

	reds, err := uc.Redemptions(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, reds)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
