package postgres

import (
	"time"

	"financas/internal/core"
)

type clienteModel struct {
	ID         int64     `gorm:"primaryKey"`
	AuthUserID string    `gorm:"size:64;uniqueIndex;not null"`
	Nome       string    `gorm:"size:120;not null"`
	Email      string    `gorm:"size:255"`
	Telefone   string    `gorm:"size:32"`
	Ativo      bool      `gorm:"not null"`
	CriadoEm   time.Time `gorm:"autoCreateTime"`
}

func (clienteModel) TableName() string { return "clientes" }

func (m clienteModel) toCore() core.Client {
	return core.Client{
		ID:         m.ID,
		AuthUserID: m.AuthUserID,
		Name:       m.Nome,
		Email:      m.Email,
		Phone:      m.Telefone,
		Active:     m.Ativo,
		CreatedAt:  m.CriadoEm,
	}
}

// categoriaColumns is shared by both category tables; queries pick the table
// with db.Table.
type categoriaColumns struct {
	ID        int64  `gorm:"primaryKey"`
	ClienteID int64  `gorm:"index;not null"`
	Nome      string `gorm:"size:60;not null"`
	Cor       string `gorm:"size:16"`
	Ativo     bool   `gorm:"not null"`
}

func (m categoriaColumns) toCore(kind core.Kind) core.Category {
	return core.Category{ID: m.ID, ClientID: m.ClienteID, Kind: kind, Name: m.Nome, Color: m.Cor, Active: m.Ativo}
}

type categoriaReceitaModel struct{ categoriaColumns }

func (categoriaReceitaModel) TableName() string { return "categorias_receita" }

type categoriaDespesaModel struct{ categoriaColumns }

func (categoriaDespesaModel) TableName() string { return "categorias_despesa" }

type transacaoColumns struct {
	ID               int64      `gorm:"primaryKey"`
	ClienteID        int64      `gorm:"index;not null"`
	Descricao        string     `gorm:"size:200;not null"`
	ValorCentavos    int64      `gorm:"not null"`
	Data             time.Time  `gorm:"type:date;index;not null"`
	CategoriaID      *int64     `gorm:"index"`
	FormaPagamentoID *int64     `gorm:"index"`
	Status           string     `gorm:"size:16;index;not null"`
	ParcelaAtual     int        `gorm:"not null"`
	TotalParcelas    int        `gorm:"not null"`
	DataLiquidacao   *time.Time `gorm:"type:date"`
}

func (m transacaoColumns) toCore(kind core.Kind) core.Transaction {
	t := core.Transaction{
		ID:              m.ID,
		ClientID:        m.ClienteID,
		Kind:            kind,
		Description:     m.Descricao,
		Amount:          core.Money{Cents: m.ValorCentavos},
		Date:            core.DateOf(m.Data),
		CategoryID:      m.CategoriaID,
		PaymentMethodID: m.FormaPagamentoID,
		Status:          core.Status(m.Status),
		Installment:     m.ParcelaAtual,
		Installments:    m.TotalParcelas,
	}
	if m.DataLiquidacao != nil {
		t.SettledOn = core.DateOf(*m.DataLiquidacao)
	}
	return t
}

func transacaoFromCore(t core.Transaction) transacaoColumns {
	m := transacaoColumns{
		ID:               t.ID,
		ClienteID:        t.ClientID,
		Descricao:        t.Description,
		ValorCentavos:    t.Amount.Cents,
		Data:             t.Date.Time,
		CategoriaID:      t.CategoryID,
		FormaPagamentoID: t.PaymentMethodID,
		Status:           string(t.Status),
		ParcelaAtual:     t.Installment,
		TotalParcelas:    t.Installments,
	}
	if !t.SettledOn.IsZero() {
		settled := t.SettledOn.Time
		m.DataLiquidacao = &settled
	}
	return m
}

type receitaModel struct{ transacaoColumns }

func (receitaModel) TableName() string { return "receitas" }

type despesaModel struct{ transacaoColumns }

func (despesaModel) TableName() string { return "despesas" }

type metaModel struct {
	ID                 int64     `gorm:"primaryKey"`
	ClienteID          int64     `gorm:"index;not null"`
	Tipo               string    `gorm:"size:16;not null"`
	Nome               string    `gorm:"size:120;not null"`
	ValorAlvoCentavos  int64     `gorm:"not null"`
	ValorAtualCentavos int64     `gorm:"not null"`
	Prazo              time.Time `gorm:"type:date;not null"`
	CategoriaReceitaID *int64    `gorm:"index"`
	CategoriaDespesaID *int64    `gorm:"index"`
}

func (metaModel) TableName() string { return "metas" }

func (m metaModel) toCore() core.Goal {
	return core.Goal{
		ID:                m.ID,
		ClientID:          m.ClienteID,
		Kind:              core.Kind(m.Tipo),
		Name:              m.Nome,
		Target:            core.Money{Cents: m.ValorAlvoCentavos},
		Current:           core.Money{Cents: m.ValorAtualCentavos},
		Deadline:          core.DateOf(m.Prazo),
		IncomeCategoryID:  m.CategoriaReceitaID,
		ExpenseCategoryID: m.CategoriaDespesaID,
	}
}

func metaFromCore(g core.Goal) metaModel {
	return metaModel{
		ID:                 g.ID,
		ClienteID:          g.ClientID,
		Tipo:               string(g.Kind),
		Nome:               g.Name,
		ValorAlvoCentavos:  g.Target.Cents,
		ValorAtualCentavos: g.Current.Cents,
		Prazo:              g.Deadline.Time,
		CategoriaReceitaID: g.IncomeCategoryID,
		CategoriaDespesaID: g.ExpenseCategoryID,
	}
}

type formaPagamentoModel struct {
	ID    int64  `gorm:"primaryKey"`
	Nome  string `gorm:"size:60;uniqueIndex;not null"`
	Ativo bool   `gorm:"not null"`
}

func (formaPagamentoModel) TableName() string { return "formas_pagamento" }

func (m formaPagamentoModel) toCore() core.PaymentMethod {
	return core.PaymentMethod{ID: m.ID, Name: m.Nome, Active: m.Ativo}
}
