package core

import "sort"

// UncategorizedName is the bucket for rows whose category is missing.
const UncategorizedName = "Sem categoria"

// UncategorizedColor is the neutral swatch used for the uncategorized bucket.
const UncategorizedColor = colorNeutral

// AggregateRow is one fetched transaction reduced to what the dashboard sums.
type AggregateRow struct {
	Amount        Money
	CategoryName  string
	CategoryColor string
	Status        Status
	Kind          Kind
}

// CategoryTotal is the amount aggregated by category name.
type CategoryTotal struct {
	Name   string `json:"nome"`
	Color  string `json:"cor"`
	Amount Money  `json:"valor"`
	Count  int    `json:"quantidade"`
}

// StatusTotals splits a kind's total by status bucket.
type StatusTotals struct {
	Pending Money `json:"pendente"`
	Settled Money `json:"liquidado"`
	Overdue Money `json:"vencido"`
	Total   Money `json:"total"`
}

type KindSummary struct {
	ByCategory map[string]CategoryTotal `json:"por_categoria"`
	Totals     StatusTotals             `json:"totais"`
}

// Summary is the dashboard view of one period.
type Summary struct {
	Income  KindSummary `json:"receitas"`
	Expense KindSummary `json:"despesas"`
	// Balance is settled income minus settled expenses.
	Balance Money `json:"saldo"`
}

// Summarize groups rows by kind and category and totals them per status.
// Rows with an unknown kind are ignored.
func Summarize(rows []AggregateRow) Summary {
	s := Summary{
		Income:  KindSummary{ByCategory: map[string]CategoryTotal{}},
		Expense: KindSummary{ByCategory: map[string]CategoryTotal{}},
	}
	for _, r := range rows {
		var ks *KindSummary
		switch r.Kind {
		case KindIncome:
			ks = &s.Income
		case KindExpense:
			ks = &s.Expense
		default:
			continue
		}
		ks.add(r)
	}
	s.Balance = s.Income.Totals.Settled.Sub(s.Expense.Totals.Settled)
	return s
}

func (ks *KindSummary) add(r AggregateRow) {
	name, color := r.CategoryName, r.CategoryColor
	if name == "" {
		name, color = UncategorizedName, UncategorizedColor
	}
	ct := ks.ByCategory[name]
	if ct.Name == "" {
		ct.Name = name
		ct.Color = color
	}
	if ct.Color == "" {
		ct.Color = color
	}
	ct.Amount = ct.Amount.Add(r.Amount)
	ct.Count++
	ks.ByCategory[name] = ct

	switch {
	case r.Status == StatusPending:
		ks.Totals.Pending = ks.Totals.Pending.Add(r.Amount)
	case r.Status.IsSettled():
		ks.Totals.Settled = ks.Totals.Settled.Add(r.Amount)
	case r.Status == StatusOverdue:
		ks.Totals.Overdue = ks.Totals.Overdue.Add(r.Amount)
	}
	ks.Totals.Total = ks.Totals.Total.Add(r.Amount)
}

// Chart returns category totals sorted by amount (desc), then name.
func (ks KindSummary) Chart() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(ks.ByCategory))
	for _, ct := range ks.ByCategory {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
