// Package export renders period reports as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"financas/internal/core"
	"financas/internal/services"
)

const (
	SheetSummary      = "Resumo"
	SheetTransactions = "Lancamentos"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var transactionHeaders = []string{"Tipo", "Data", "Descrição", "Categoria", "Forma de pagamento", "Status", "Parcela", "Valor"}

// Workbook builds the two-sheet workbook of r: per-category totals and the
// transaction list.
func Workbook(r services.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetTransactions); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	if err := writeSummary(f, r, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	if err := writeTransactions(f, r, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	return f, nil
}

// Write streams the workbook of r to w.
func Write(w io.Writer, r services.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Filename is the attachment name for the period.
func Filename(p core.Period) string {
	return fmt.Sprintf("relatorio_%s_%s.xlsx", p.Start, p.End)
}

func writeSummary(f *excelize.File, r services.Report, headerStyle, moneyStyle int) error {
	rows := [][]any{
		{"Período", r.Period.Start, r.Period.End},
		{},
		{"Tipo", "Categoria", "Lançamentos", "Valor"},
	}
	headerRow := len(rows)
	for _, part := range []struct {
		label string
		ks    core.KindSummary
	}{
		{"Receitas", r.Summary.Income},
		{"Despesas", r.Summary.Expense},
	} {
		for _, ct := range part.ks.Chart() {
			rows = append(rows, []any{part.label, ct.Name, ct.Count, ct.Amount.Reais()})
		}
	}
	rows = append(rows,
		[]any{},
		[]any{"Receitas recebidas", "", "", r.Summary.Income.Totals.Settled.Reais()},
		[]any{"Receitas pendentes", "", "", r.Summary.Income.Totals.Pending.Reais()},
		[]any{"Despesas pagas", "", "", r.Summary.Expense.Totals.Settled.Reais()},
		[]any{"Despesas pendentes", "", "", r.Summary.Expense.Totals.Pending.Reais()},
		[]any{"Despesas vencidas", "", "", r.Summary.Expense.Totals.Overdue.Reais()},
		[]any{"Saldo", "", "", r.Summary.Balance.Reais()},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("D%d", headerRow), headerStyle); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("D%d", headerRow+1), fmt.Sprintf("D%d", len(rows)), moneyStyle); err != nil {
		return fmt.Errorf("style summary amounts: %w", err)
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 20)
	_ = f.SetColWidth(SheetSummary, "B", "B", 24)
	_ = f.SetColWidth(SheetSummary, "C", "D", 14)
	return nil
}

func writeTransactions(f *excelize.File, r services.Report, headerStyle, moneyStyle int) error {
	header := make([]any, len(transactionHeaders))
	for i, h := range transactionHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetTransactions, "A1", &header); err != nil {
		return fmt.Errorf("write transactions header: %w", err)
	}
	if err := f.SetCellStyle(SheetTransactions, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("style transactions header: %w", err)
	}

	row := 2
	for _, views := range [][]core.TransactionView{r.Income, r.Expense} {
		for _, v := range views {
			category := v.CategoryName
			if category == "" {
				category = core.UncategorizedName
			}
			installment := ""
			if v.Installments > 1 {
				installment = fmt.Sprintf("%d/%d", v.Installment, v.Installments)
			}
			values := []any{
				kindLabel(v.Kind),
				v.Date.String(),
				v.Description,
				category,
				v.PaymentMethodName,
				v.Status.Label(),
				installment,
				v.Amount.Reais(),
			}
			if err := f.SetSheetRow(SheetTransactions, fmt.Sprintf("A%d", row), &values); err != nil {
				return fmt.Errorf("write transaction row %d: %w", row, err)
			}
			row++
		}
	}
	if row > 2 {
		if err := f.SetCellStyle(SheetTransactions, "H2", fmt.Sprintf("H%d", row-1), moneyStyle); err != nil {
			return fmt.Errorf("style transaction amounts: %w", err)
		}
	}
	_ = f.SetColWidth(SheetTransactions, "A", "B", 12)
	_ = f.SetColWidth(SheetTransactions, "C", "C", 32)
	_ = f.SetColWidth(SheetTransactions, "D", "E", 20)
	_ = f.SetColWidth(SheetTransactions, "F", "H", 12)
	return nil
}

func kindLabel(k core.Kind) string {
	if k == core.KindIncome {
		return "Receita"
	}
	return "Despesa"
}
