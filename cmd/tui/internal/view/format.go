package view

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dbTimeout = 5 * time.Second

	// advisorTimeout covers a full model round trip through the API.
	advisorTimeout = 90 * time.Second
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatAmount renders a decimal as Brazilian reais, e.g. R$ 1.234,56.
func FormatAmount(d decimal.Decimal) string {
	return brl.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseAmount accepts both 1234.56 and 1.234,56.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("enter an amount like 150,00")
	}

	return d, nil
}

func validateAmount(s string) error {
	d, err := ParseAmount(s)
	if err != nil {
		return err
	}

	if !d.IsPositive() {
		return errors.New("amount must be greater than zero")
	}

	if !d.Equal(d.Truncate(2)) {
		return errors.New("use at most two decimal places")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return t
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// AdvisorCtx returns a context long enough for an advisory request.
func AdvisorCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), advisorTimeout)
}
