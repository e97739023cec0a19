package promotion

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// parseDate acepta YYYY-MM-DD o RFC3339. Para la vigencia solo cuenta la fecha calendario.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s deve ter o formato AAAA-MM-DD", domain.ErrInvalidInput, field)
	}
	return t, nil
}

func toCouponResponse(c *entity.Coupon) *dto.CouponResponse {
	if c == nil {
		return nil
	}
	courses := c.ApplicableCourses
	if courses == nil {
		courses = []string{}
	}
	return &dto.CouponResponse{
		ID:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		Type:              c.Type,
		DiscountType:      c.DiscountType,
		DiscountValue:     c.DiscountValue,
		CompanyID:         c.CompanyID,
		MaxUses:           c.MaxUses,
		UsedCount:         c.UsedCount,
		ValidFrom:         c.ValidFrom.Format(dateLayout),
		ValidUntil:        c.ValidUntil.Format(dateLayout),
		MinPurchase:       c.MinPurchase,
		ApplicableCourses: courses,
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toRedemptionResponse(r *entity.CouponRedemption) dto.RedemptionResponse {
	return dto.RedemptionResponse{
		ID:        r.ID,
		CouponID:  r.CouponID,
		UserID:    r.UserID,
		OrderID:   r.OrderID,
		Discount:  r.Discount,
		CreatedAt: r.CreatedAt,
	}
}
