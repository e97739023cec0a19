package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/capacita-api/pkg/money"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 100,00", money.FormatBRL(decimal.NewFromInt(100)))
	assert.Equal(t, "R$ 99,90", money.FormatBRL(decimal.RequireFromString("99.9")))
	assert.Equal(t, "R$ 0,50", money.FormatBRL(decimal.RequireFromString("0.499")))
}
