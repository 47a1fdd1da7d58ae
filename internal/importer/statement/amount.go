package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber parses an amount cell in the given format.
// Examples: "1.234,56", "-588,74", "R$ 10,00", "(12,00)", "1234.56".
func parseNumber(s string, f numberFormat) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.ReplaceAll(clean, " ", "")

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	if f == numberBrazilian {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}
