package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/vault/internal/encoding"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var ErrUnknownFormat = errors.New("no matching statement format found")

// Parser reads bank and card CSV exports and produces transaction params.
// It auto-detects the export format by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, fmt.Errorf("%w: expected columns for fatura, extrato or digital export", ErrUnknownFormat)
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a profile using the given separator.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Comma == comma && matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		txs = append(txs, transaction.CreateParams{
			Amount:         amount,
			Type:           txType,
			Description:    desc,
			RawDescription: desc,
			Method:         p.Method,
			Date:           date,
		})
	}

	return txs, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(p, row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(p, row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, "", false
}

func parseSingleAmount(p *Profile, row []string, idx int) (decimal.Decimal, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseNumber(s, p.Numbers)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if p.ChargesPositive {
		d = d.Neg()
	}

	if d.IsNegative() {
		return d.Abs(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

// parseSplitAmount handles separate debit and credit columns. Debit wins when both are filled.
func parseSplitAmount(p *Profile, row []string, debitIdx, creditIdx int) (decimal.Decimal, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseNumber(s, p.Numbers)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseNumber(s, p.Numbers)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
