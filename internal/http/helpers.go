package http

import (
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/services"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

type clientDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Phone     string    `json:"telefone"`
	Active    bool      `json:"ativo"`
	CreatedAt time.Time `json:"criado_em"`
}

func toClientDTO(c core.Client) clientDTO {
	return clientDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

type accessDTO struct {
	State  services.AccessState `json:"estado"`
	Client *clientDTO           `json:"cliente,omitempty"`
}

type categoryDTO struct {
	ID     int64     `json:"id"`
	Kind   core.Kind `json:"tipo"`
	Name   string    `json:"nome"`
	Color  string    `json:"cor"`
	Active bool      `json:"ativo"`
}

func toCategoryDTO(c core.Category) categoryDTO {
	return categoryDTO{ID: c.ID, Kind: c.Kind, Name: c.Name, Color: c.Color, Active: c.Active}
}

type paymentMethodDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"nome"`
	Active bool   `json:"ativo"`
}

func toPaymentMethodDTO(p core.PaymentMethod) paymentMethodDTO {
	return paymentMethodDTO{ID: p.ID, Name: p.Name, Active: p.Active}
}

type transactionDTO struct {
	ID                int64       `json:"id"`
	Kind              core.Kind   `json:"tipo"`
	Description       string      `json:"descricao"`
	Amount            core.Money  `json:"valor"`
	Date              core.Date   `json:"data"`
	CategoryID        *int64      `json:"categoria_id"`
	CategoryName      string      `json:"categoria,omitempty"`
	CategoryColor     string      `json:"categoria_cor,omitempty"`
	PaymentMethodID   *int64      `json:"forma_pagamento_id"`
	PaymentMethodName string      `json:"forma_pagamento,omitempty"`
	Status            core.Status `json:"status"`
	StatusLabel       string      `json:"status_rotulo"`
	StatusColor       string      `json:"status_cor"`
	Installment       int         `json:"parcela,omitempty"`
	Installments      int         `json:"parcelas,omitempty"`
	SettledOn         core.Date   `json:"data_liquidacao"`
}

func toTransactionDTO(v core.TransactionView) transactionDTO {
	t := v.Transaction
	return transactionDTO{
		ID:                t.ID,
		Kind:              t.Kind,
		Description:       t.Description,
		Amount:            t.Amount,
		Date:              t.Date,
		CategoryID:        t.CategoryID,
		CategoryName:      v.CategoryName,
		CategoryColor:     v.CategoryColor,
		PaymentMethodID:   t.PaymentMethodID,
		PaymentMethodName: v.PaymentMethodName,
		Status:            t.Status,
		StatusLabel:       t.Status.Label(),
		StatusColor:       core.StatusColor(t.Status),
		Installment:       t.Installment,
		Installments:      t.Installments,
		SettledOn:         t.SettledOn,
	}
}

func toTransactionDTOs(views []core.TransactionView) []transactionDTO {
	out := make([]transactionDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toTransactionDTO(v))
	}
	return out
}

type goalDTO struct {
	ID            int64         `json:"id"`
	Kind          core.Kind     `json:"tipo"`
	Name          string        `json:"nome"`
	Target        core.Money    `json:"valor_alvo"`
	Current       core.Money    `json:"valor_atual"`
	Deadline      core.Date     `json:"prazo"`
	CategoryID    int64         `json:"categoria_id"`
	CategoryName  string        `json:"categoria,omitempty"`
	CategoryColor string        `json:"categoria_cor,omitempty"`
	Progress      core.Progress `json:"progresso"`
}

func toGoalDTO(v core.GoalView) goalDTO {
	catID, _ := v.Goal.CategoryID()
	return goalDTO{
		ID:            v.ID,
		Kind:          v.Kind,
		Name:          v.Name,
		Target:        v.Target,
		Current:       v.Current,
		Deadline:      v.Deadline,
		CategoryID:    catID,
		CategoryName:  v.CategoryName,
		CategoryColor: v.CategoryColor,
		Progress:      v.Progress,
	}
}

type chartsDTO struct {
	Income  []core.CategoryTotal `json:"receitas"`
	Expense []core.CategoryTotal `json:"despesas"`
}

type reportDTO struct {
	Period  core.Period      `json:"periodo"`
	Summary core.Summary     `json:"resumo"`
	Charts  chartsDTO        `json:"graficos"`
	Income  []transactionDTO `json:"receitas"`
	Expense []transactionDTO `json:"despesas"`
	Goals   []goalDTO        `json:"metas"`
}

func toReportDTO(r services.Report, goals []core.GoalView) reportDTO {
	dto := reportDTO{
		Period:  r.Period,
		Summary: r.Summary,
		Charts: chartsDTO{
			Income:  r.Summary.Income.Chart(),
			Expense: r.Summary.Expense.Chart(),
		},
		Income:  toTransactionDTOs(r.Income),
		Expense: toTransactionDTOs(r.Expense),
		Goals:   make([]goalDTO, 0, len(goals)),
	}
	for _, g := range goals {
		dto.Goals = append(dto.Goals, toGoalDTO(g))
	}
	return dto
}
