package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cupón.
const (
	CouponTypeIndividual = "individual"
	CouponTypeCompany    = "company"
)

// Tipos de descuento.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon representa un código de descuento con reglas de elegibilidad y cuota de uso.
type Coupon struct {
	ID                string
	Code              string // único; se compara sin distinguir mayúsculas
	Description       string
	Type              string // individual | company
	DiscountType      string // percentage | fixed
	DiscountValue     decimal.Decimal
	CompanyID         string // solo cuando Type = company
	MaxUses           int
	UsedCount         int
	ValidFrom         time.Time
	ValidUntil        time.Time
	MinPurchase       *decimal.Decimal // nil = sin mínimo
	ApplicableCourses []string         // vacío = todos los cursos
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasUsesLeft informa si la cuota de uso no se ha agotado.
func (c *Coupon) HasUsesLeft() bool {
	return c.UsedCount < c.MaxUses
}

// CouponRedemption registra una aplicación exitosa de un cupón sobre una orden.
type CouponRedemption struct {
	ID        string
	CouponID  string
	UserID    string
	OrderID   string
	Discount  decimal.Decimal
	CreatedAt time.Time
}
