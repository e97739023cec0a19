// Package coupon contiene las reglas puras de elegibilidad y cálculo de descuento de cupones.
// No accede a persistencia: recibe el cupón ya cargado y el instante de evaluación.
package coupon

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/pkg/money"
)

// Reason código estable del resultado de una validación.
type Reason string

const (
	ReasonOK             Reason = "OK"
	ReasonNotFound       Reason = "NOT_FOUND"
	ReasonInactive       Reason = "INACTIVE"
	ReasonUsageExhausted Reason = "USAGE_LIMIT_REACHED"
	ReasonOutOfWindow    Reason = "OUT_OF_VALIDITY_WINDOW"
	ReasonMinPurchase    Reason = "MIN_PURCHASE_NOT_MET"
	ReasonCompanyOnly    Reason = "COMPANY_EXCLUSIVE"
	ReasonCourses        Reason = "NOT_VALID_FOR_COURSES"
)

// Mensajes mostrados directamente al usuario final.
const (
	MsgApplied        = "Cupom aplicado com sucesso"
	MsgNotFound       = "Cupom não encontrado"
	MsgInactive       = "Cupom inativo"
	MsgUsageExhausted = "Cupom atingiu o limite de usos"
	MsgOutOfWindow    = "Cupom fora do período de validade"
	MsgCompanyOnly    = "Cupom exclusivo para uma empresa"
	MsgCourses        = "Cupom não é válido para os cursos selecionados"
)

var hundred = decimal.NewFromInt(100)

// Cart contexto del carrito contra el que se evalúa un cupón.
type Cart struct {
	UserID    string
	CourseIDs []string
	Total     decimal.Decimal
	CompanyID string // tenant del comprador; vacío si compra individual
}

// Result resultado estructurado de la evaluación. Nunca es un error.
type Result struct {
	Valid    bool
	Reason   Reason
	Message  string
	Coupon   *entity.Coupon
	Discount decimal.Decimal
}

func fail(reason Reason, msg string) Result {
	return Result{Reason: reason, Message: msg, Discount: decimal.Zero}
}

// Evaluate aplica las reglas en orden y se detiene en la primera que falla:
// existencia, activo, cuota, vigencia, compra mínima, exclusividad de empresa y cursos.
// Un cupón nil equivale a "no encontrado".
func Evaluate(c *entity.Coupon, cart Cart, now time.Time) Result {
	if c == nil {
		return fail(ReasonNotFound, MsgNotFound)
	}
	if !c.IsActive {
		return fail(ReasonInactive, MsgInactive)
	}
	if !c.HasUsesLeft() {
		return fail(ReasonUsageExhausted, MsgUsageExhausted)
	}
	if !WithinWindow(c, now) {
		return fail(ReasonOutOfWindow, MsgOutOfWindow)
	}
	if c.MinPurchase != nil && cart.Total.LessThan(*c.MinPurchase) {
		return fail(ReasonMinPurchase, "Valor mínimo de compra para este cupom: "+money.FormatBRL(*c.MinPurchase))
	}
	if c.Type == entity.CouponTypeCompany && (cart.CompanyID == "" || cart.CompanyID != c.CompanyID) {
		return fail(ReasonCompanyOnly, MsgCompanyOnly)
	}
	if len(c.ApplicableCourses) > 0 && !anyApplicable(c.ApplicableCourses, cart.CourseIDs) {
		return fail(ReasonCourses, MsgCourses)
	}
	return Result{
		Valid:    true,
		Reason:   ReasonOK,
		Message:  MsgApplied,
		Coupon:   c,
		Discount: Discount(c, cart.Total),
	}
}

// Discount calcula el descuento sobre el total:
// percentage = total * valor / 100; fixed = min(total, valor).
func Discount(c *entity.Coupon, total decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case entity.DiscountPercentage:
		return total.Mul(c.DiscountValue).Div(hundred)
	case entity.DiscountFixed:
		return decimal.Min(total, c.DiscountValue)
	default:
		return decimal.Zero
	}
}

// NewTotal total luego del descuento, nunca negativo.
func NewTotal(total, discount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, total.Sub(discount))
}

// WithinWindow informa si el día calendario de now, en la zona de now, cae en
// [ValidFrom, ValidUntil], ambos inclusive. Las fechas del cupón se comparan solo por año, mes y día.
func WithinWindow(c *entity.Coupon, now time.Time) bool {
	today := calendarDay(now)
	return !today.Before(calendarDay(c.ValidFrom)) && !today.After(calendarDay(c.ValidUntil))
}

// StandingCompanyCoupon informa si el cupón sirve como descuento permanente de la empresa:
// tipo company del mismo tenant, activo, con usos y vigente.
func StandingCompanyCoupon(c *entity.Coupon, companyID string, now time.Time) bool {
	return c.Type == entity.CouponTypeCompany &&
		companyID != "" && c.CompanyID == companyID &&
		c.IsActive && c.HasUsesLeft() && WithinWindow(c, now)
}

func anyApplicable(allowed, courseIDs []string) bool {
	for _, id := range courseIDs {
		if slices.Contains(allowed, id) {
			return true
		}
	}
	return false
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
