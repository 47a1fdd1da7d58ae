package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/vault/internal/importer/statement"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Extrato de conta corrente
Agência;0001
Conta;12345-6
Período;01/03/2024 a 31/03/2024

Data;Descrição;Documento;Valor;Saldo
05/03/2024;PIX RECEBIDO JOAO SILVA;000123;1.234,56;5.234,56
06/03/2024;PAGAMENTO BOLETO ENEL;000124;-288,90;4.945,66
07/03/2024;SALDO DO DIA;;;4.945,66
Saldo final;;;;4.945,66
`

	txs, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2024, 3, 5), txs[0].Date)
	assert.Equal(t, "PIX RECEBIDO JOAO SILVA", txs[0].Description)
	assert.Equal(t, "PIX RECEBIDO JOAO SILVA", txs[0].RawDescription)
	assert.True(t, dec("1234.56").Equal(txs[0].Amount))
	assert.Equal(t, transaction.TypeIncome, txs[0].Type)
	assert.Equal(t, transaction.MethodTransfer, txs[0].Method)

	assert.Equal(t, date(2024, 3, 6), txs[1].Date)
	assert.True(t, dec("288.90").Equal(txs[1].Amount))
	assert.Equal(t, transaction.TypeExpense, txs[1].Type)
}

func TestParser_Fatura(t *testing.T) {
	csv := `Data;Descrição;Débito;Crédito
10/04/2024;IFOOD *RESTAURANTE;R$ 45,90;
11/04/2024;ESTORNO LOJA X;;R$ 120,00
12/04/2024;ANUIDADE;0,00;
`

	txs, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "IFOOD *RESTAURANTE", txs[0].Description)
	assert.True(t, dec("45.90").Equal(txs[0].Amount))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.Equal(t, transaction.MethodCard, txs[0].Method)

	assert.True(t, dec("120").Equal(txs[1].Amount))
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
}

func TestParser_Digital(t *testing.T) {
	csv := `date,title,amount
2024-05-02,Uber *Trip,23.45
2024-05-03,Pagamento recebido,-500.00
2024-05-04,"Mercado, Pão de Açúcar",189.9
`

	txs, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, date(2024, 5, 2), txs[0].Date)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.True(t, dec("23.45").Equal(txs[0].Amount))

	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
	assert.True(t, dec("500").Equal(txs[1].Amount))

	assert.Equal(t, "Mercado, Pão de Açúcar", txs[2].Description)
}

func TestParser_Latin1(t *testing.T) {
	utf8CSV := "Data;Descrição;Valor\n15/01/2024;Padaria São João;-12,50\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	txs, err := statement.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Padaria São João", txs[0].Description)
	assert.True(t, dec("12.50").Equal(txs[0].Amount))
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantErr error
	}

	tests := []testCase{
		{
			name:    "UnknownFormat",
			csv:     "foo;bar\n1;2\n",
			wantErr: statement.ErrUnknownFormat,
		},
		{
			name:    "Empty",
			csv:     "",
			wantErr: statement.ErrUnknownFormat,
		},
		{
			name: "MissingDescription",
			csv:  "Data;Descrição;Valor\n15/01/2024;;-12,50\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := statement.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParser_HeaderOnly(t *testing.T) {
	txs, err := statement.NewParser().Parse(strings.NewReader("Data;Descrição;Valor\n"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}
