package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"financas/internal/core"
	"financas/internal/services"
)

func sampleReport() services.Report {
	rows := []core.TransactionView{
		{
			Transaction: core.Transaction{
				Kind: core.KindExpense, Description: "Mercado", Amount: core.Money{Cents: 20000},
				Date: core.NewDate(2025, 3, 2), Status: core.StatusPaid,
			},
			CategoryName: "Alimentação", PaymentMethodName: "Pix",
		},
		{
			Transaction: core.Transaction{
				Kind: core.KindExpense, Description: "TV", Amount: core.Money{Cents: 10000},
				Date: core.NewDate(2025, 3, 10), Status: core.StatusPending,
				Installment: 2, Installments: 10,
			},
		},
	}
	income := []core.TransactionView{
		{
			Transaction: core.Transaction{
				Kind: core.KindIncome, Description: "Salário", Amount: core.Money{Cents: 500000},
				Date: core.NewDate(2025, 3, 5), Status: core.StatusReceived,
			},
			CategoryName: "Salário",
		},
	}
	agg := make([]core.AggregateRow, 0, 3)
	for _, v := range append(append([]core.TransactionView{}, income...), rows...) {
		agg = append(agg, core.AggregateRow{Amount: v.Amount, CategoryName: v.CategoryName, Status: v.Status, Kind: v.Kind})
	}
	return services.Report{
		Period:  core.MonthPeriod(2025, 3),
		Summary: core.Summarize(agg),
		Income:  income,
		Expense: rows,
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTransactions}, f.GetSheetList())

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Descrição", rows[0][2])

	assert.Equal(t, "Receita", rows[1][0])
	assert.Equal(t, "Salário", rows[1][2])

	assert.Equal(t, "Pix", rows[2][4])
	assert.Equal(t, "Pago", rows[2][5])

	assert.Equal(t, core.UncategorizedName, rows[3][3])
	assert.Equal(t, "2/10", rows[3][6])

	start, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", start)

	// Header row, then income categories, then expense categories by amount.
	cat, err := f.GetCellValue(SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Salário", cat)
	cat, err = f.GetCellValue(SheetSummary, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Alimentação", cat)
}

func TestWrite_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, services.Report{Period: core.MonthPeriod(2025, 1)}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "relatorio_2025-12-01_2026-01-01.xlsx", Filename(core.MonthPeriod(2025, 12)))
}
