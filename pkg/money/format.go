// Package money formatea montos en reales para mensajes al usuario final.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL devuelve el monto con símbolo y separadores pt-BR (ej. "R$ 100,00").
func FormatBRL(amount decimal.Decimal) string {
	return brPrinter.Sprintf("R$ %.2f", amount.Round(2).InexactFloat64())
}
