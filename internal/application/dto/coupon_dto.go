package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidateCouponRequest body para POST /api/coupons/validate.
type ValidateCouponRequest struct {
	Code        string          `json:"code" validate:"max=64"`
	UserID      string          `json:"user_id"`
	CourseIDs   []string        `json:"course_ids" validate:"required,min=1,dive,required"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CompanyID   string          `json:"company_id,omitempty"`
}

// ApplyCouponRequest body para POST /api/coupons/apply.
type ApplyCouponRequest struct {
	ValidateCouponRequest
	OrderID string `json:"order_id" validate:"required,max=100"`
}

// CouponValidationResponse resultado de validar un cupón. Un cupón inválido no es un error HTTP.
type CouponValidationResponse struct {
	IsValid         bool            `json:"is_valid"`
	Reason          string          `json:"reason"`
	Message         string          `json:"message"`
	Coupon          *CouponResponse `json:"coupon,omitempty"`
	AppliedDiscount decimal.Decimal `json:"applied_discount"`
}

// ApplyCouponResponse resultado de aplicar (redimir) un cupón.
type ApplyCouponResponse struct {
	Success         bool             `json:"success"`
	Reason          string           `json:"reason"`
	Message         string           `json:"message"`
	AppliedDiscount decimal.Decimal  `json:"applied_discount"`
	NewTotal        *decimal.Decimal `json:"new_total,omitempty"`
}

// CreateCouponRequest body para POST /api/coupons. Fechas en formato YYYY-MM-DD o RFC3339.
type CreateCouponRequest struct {
	Code              string           `json:"code" validate:"required,max=64"`
	Description       string           `json:"description"`
	Type              string           `json:"type" validate:"required,oneof=individual company"`
	DiscountType      string           `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	CompanyID         string           `json:"company_id,omitempty"`
	MaxUses           int              `json:"max_uses" validate:"gte=1"`
	ValidFrom         string           `json:"valid_from" validate:"required"`
	ValidUntil        string           `json:"valid_until" validate:"required"`
	MinPurchase       *decimal.Decimal `json:"min_purchase,omitempty"`
	ApplicableCourses []string         `json:"applicable_courses,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"` // por defecto true
}

// UpdateCouponRequest actualización parcial; solo se aplican los campos presentes.
type UpdateCouponRequest struct {
	Code              *string          `json:"code"`
	Description       *string          `json:"description"`
	Type              *string          `json:"type" validate:"omitempty,oneof=individual company"`
	DiscountType      *string          `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	CompanyID         *string          `json:"company_id"`
	MaxUses           *int             `json:"max_uses" validate:"omitempty,gte=1"`
	ValidFrom         *string          `json:"valid_from"`
	ValidUntil        *string          `json:"valid_until"`
	MinPurchase       *decimal.Decimal `json:"min_purchase"`
	ClearMinPurchase  bool             `json:"clear_min_purchase"`
	ApplicableCourses *[]string        `json:"applicable_courses"`
	IsActive          *bool            `json:"is_active"`
}

// CouponResponse cupón en respuestas.
type CouponResponse struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	Type              string           `json:"type"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	CompanyID         string           `json:"company_id,omitempty"`
	MaxUses           int              `json:"max_uses"`
	UsedCount         int              `json:"used_count"`
	ValidFrom         string           `json:"valid_from"`
	ValidUntil        string           `json:"valid_until"`
	MinPurchase       *decimal.Decimal `json:"min_purchase,omitempty"`
	ApplicableCourses []string         `json:"applicable_courses"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// RedemptionResponse aplicación registrada de un cupón.
type RedemptionResponse struct {
	ID        string          `json:"id"`
	CouponID  string          `json:"coupon_id"`
	UserID    string          `json:"user_id"`
	OrderID   string          `json:"order_id"`
	Discount  decimal.Decimal `json:"discount"`
	CreatedAt time.Time       `json:"created_at"`
}
