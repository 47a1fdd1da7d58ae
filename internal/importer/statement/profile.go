package statement

import "github.com/MrJamesThe3rd/vault/internal/transaction"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Valor" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// numberFormat is how decimal amounts are written in a file.
type numberFormat int

const (
	// numberBrazilian uses "." for thousands and "," for decimals: "1.234,56".
	numberBrazilian numberFormat = iota
	// numberPlain uses "." for decimals and no grouping: "1234.56".
	numberPlain
)

// Profile describes the column layout of a statement CSV export.
type Profile struct {
	Name       string
	Comma      rune
	DateCol    string
	DateLayout string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
	Numbers    numberFormat
	// ChargesPositive flips the sign convention: positive values are spending.
	// Card exports list purchases as positive and payments as negative.
	ChargesPositive bool
	Method          transaction.Method
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles come first.
var profiles = []Profile{
	{
		Name:       "fatura",
		Comma:      ';',
		DateCol:    "Data",
		DateLayout: "02/01/2006",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
		Numbers:    numberBrazilian,
		Method:     transaction.MethodCard,
	},
	{
		Name:       "extrato",
		Comma:      ';',
		DateCol:    "Data",
		DateLayout: "02/01/2006",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Valor",
		Numbers:    numberBrazilian,
		Method:     transaction.MethodTransfer,
	},
	{
		Name:            "digital",
		Comma:           ',',
		DateCol:         "date",
		DateLayout:      "2006-01-02",
		DescCol:         "title",
		AmountMode:      amountSingle,
		AmountCol:       "amount",
		Numbers:         numberPlain,
		ChargesPositive: true,
		Method:          transaction.MethodCard,
	},
}
