package coupon

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

// NormalizeCode normaliza el código de un cupón para almacenarlo y buscarlo.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateDefinition verifica las invariantes de un cupón antes de persistirlo.
// Los errores envuelven domain.ErrInvalidInput.
func ValidateDefinition(c *entity.Coupon) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
	}

	if c.Code == "" {
		return invalid("code é obrigatório")
	}
	switch c.Type {
	case entity.CouponTypeIndividual:
		if c.CompanyID != "" {
			return invalid("company_id só se aplica a cupons do tipo company")
		}
	case entity.CouponTypeCompany:
		if c.CompanyID == "" {
			return invalid("company_id é obrigatório para cupons do tipo company")
		}
	default:
		return invalid("type %q não suportado", c.Type)
	}
	switch c.DiscountType {
	case entity.DiscountPercentage:
		if c.DiscountValue.LessThanOrEqual(decimal.Zero) || c.DiscountValue.GreaterThan(hundred) {
			return invalid("discount_value percentual deve estar entre 0 e 100")
		}
	case entity.DiscountFixed:
		if c.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return invalid("discount_value deve ser maior que zero")
		}
	default:
		return invalid("discount_type %q no soportado", c.DiscountType)
	}
	if c.MaxUses < 1 {
		return invalid("max_uses deve ser pelo menos 1")
	}
	if c.UsedCount < 0 || c.UsedCount > c.MaxUses {
		return invalid("used_count fora do intervalo")
	}
	if c.ValidFrom.IsZero() || c.ValidUntil.IsZero() {
		return invalid("valid_from e valid_until são obrigatórios")
	}
	if c.ValidUntil.Before(c.ValidFrom) {
		return invalid("valid_from deve ser anterior ou igual a valid_until")
	}
	if c.MinPurchase != nil && c.MinPurchase.IsNegative() {
		return invalid("min_purchase não pode ser negativo")
	}
	return nil
}
