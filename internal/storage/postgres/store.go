// Package postgres implements ports.Store on a hosted Postgres database
// through gorm. The schema mirrors the SQLite migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"financas/internal/core"
	"financas/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

// Open connects to dsn and, when migrate is set, brings the schema up to date.
func Open(dsn string, migrate bool) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db}
	if migrate {
		if err := s.AutoMigrate(); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}
	return s, nil
}

// AutoMigrate creates or alters every table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(
		&clienteModel{},
		&categoriaReceitaModel{},
		&categoriaDespesaModel{},
		&formaPagamentoModel{},
		&receitaModel{},
		&despesaModel{},
		&metaModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type kindTables struct {
	categories   string
	transactions string
	goalColumn   string
}

func tablesFor(kind core.Kind) (kindTables, error) {
	switch kind {
	case core.KindIncome:
		return kindTables{"categorias_receita", "receitas", "categoria_receita_id"}, nil
	case core.KindExpense:
		return kindTables{"categorias_despesa", "despesas", "categoria_despesa_id"}, nil
	}
	return kindTables{}, core.ErrInvalidKind
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNotFound
	}
	return err
}

// duplicate turns gorm's translated unique violation into core.ErrDuplicateName.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", core.ErrDuplicateName, err)
	}
	return err
}

func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return fmt.Errorf("%s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Clients

func (s *Store) GetClientByAuthUser(ctx context.Context, authUserID string) (core.Client, error) {
	var m clienteModel
	if err := s.db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&m).Error; err != nil {
		return core.Client{}, notFound(err)
	}
	return m.toCore(), nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (core.Client, error) {
	var m clienteModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return core.Client{}, notFound(err)
	}
	return m.toCore(), nil
}

func (s *Store) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	m := clienteModel{
		AuthUserID: c.AuthUserID,
		Nome:       c.Name,
		Email:      c.Email,
		Telefone:   c.Phone,
		Ativo:      c.Active,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "auth_user_id"}}, DoNothing: true}).
		Create(&m)
	if res.Error != nil {
		return core.Client{}, fmt.Errorf("insert client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.GetClientByAuthUser(ctx, c.AuthUserID)
	}
	slog.InfoContext(ctx, "Client saved to Postgres", "id", m.ID, "auth_user_id", m.AuthUserID)
	return m.toCore(), nil
}

func (s *Store) ListClients(ctx context.Context) ([]core.Client, error) {
	var ms []clienteModel
	if err := s.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]core.Client, len(ms))
	for i, m := range ms {
		out[i] = m.toCore()
	}
	return out, nil
}

func (s *Store) SetClientActive(ctx context.Context, id int64, active bool) error {
	res := s.db.WithContext(ctx).Model(&clienteModel{}).Where("id = ?", id).Update("ativo", active)
	return affected(res, "update client")
}

// Categories

func (s *Store) ListCategories(ctx context.Context, clientID int64, kind core.Kind, includeInactive bool) ([]core.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Table(t.categories).Where("cliente_id = ?", clientID)
	if !includeInactive {
		q = q.Where("ativo = ?", true)
	}
	var ms []categoriaColumns
	if err := q.Order("nome").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, len(ms))
	for i, m := range ms {
		out[i] = m.toCore(kind)
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, clientID int64, kind core.Kind, id int64) (core.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return core.Category{}, err
	}
	var m categoriaColumns
	err = s.db.WithContext(ctx).Table(t.categories).
		Where("id = ? AND cliente_id = ?", id, clientID).Take(&m).Error
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return m.toCore(kind), nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return core.Category{}, err
	}
	m := categoriaColumns{ClienteID: c.ClientID, Nome: c.Name, Cor: c.Color, Ativo: c.Active}
	if err := s.db.WithContext(ctx).Table(t.categories).Create(&m).Error; err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return m.toCore(c.Kind), nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return core.Category{}, err
	}
	res := s.db.WithContext(ctx).Table(t.categories).
		Where("id = ? AND cliente_id = ?", c.ID, c.ClientID).
		Updates(map[string]any{"nome": c.Name, "cor": c.Color, "ativo": c.Active})
	if err := affected(res, "update category"); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *Store) SetCategoryActive(ctx context.Context, clientID int64, kind core.Kind, id int64, active bool) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Table(t.categories).
		Where("id = ? AND cliente_id = ?", id, clientID).Update("ativo", active)
	return affected(res, "update category")
}

func (s *Store) DeleteCategory(ctx context.Context, clientID int64, kind core.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Table(t.categories).
		Where("id = ? AND cliente_id = ?", id, clientID).Delete(&categoriaColumns{})
	return affected(res, "delete category")
}

func (s *Store) CountTransactionsByCategory(ctx context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.db.WithContext(ctx).Table(t.transactions).
		Where("cliente_id = ? AND categoria_id = ?", clientID, categoryID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(n), nil
}

func (s *Store) CountGoalsByCategory(ctx context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.db.WithContext(ctx).Model(&metaModel{}).
		Where("cliente_id = ? AND "+t.goalColumn+" = ?", clientID, categoryID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return int(n), nil
}

// Transactions

type transacaoRow struct {
	transacaoColumns
	CategoriaNome      string
	CategoriaCor       string
	FormaPagamentoNome string
}

func (s *Store) ListTransactions(ctx context.Context, clientID int64, kind core.Kind, period core.Period) ([]core.TransactionView, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	var rows []transacaoRow
	err = s.db.WithContext(ctx).Table(t.transactions+" AS t").
		Select(`t.*, COALESCE(c.nome, '') AS categoria_nome, COALESCE(c.cor, '') AS categoria_cor,
			COALESCE(f.nome, '') AS forma_pagamento_nome`).
		Joins("LEFT JOIN "+t.categories+" c ON c.id = t.categoria_id").
		Joins("LEFT JOIN formas_pagamento f ON f.id = t.forma_pagamento_id").
		Where("t.cliente_id = ? AND t.data >= ? AND t.data < ?", clientID, period.Start, period.End).
		Order("t.data DESC, t.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.TransactionView, len(rows))
	for i, r := range rows {
		out[i] = core.TransactionView{
			Transaction:       r.toCore(kind),
			CategoryName:      r.CategoriaNome,
			CategoryColor:     r.CategoriaCor,
			PaymentMethodName: r.FormaPagamentoNome,
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, clientID int64, kind core.Kind, id int64) (core.Transaction, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	var m transacaoColumns
	err = s.db.WithContext(ctx).Table(t.transactions).
		Where("id = ? AND cliente_id = ?", id, clientID).Take(&m).Error
	if err != nil {
		return core.Transaction{}, notFound(err)
	}
	return m.toCore(kind), nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	t, err := tablesFor(tx.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	m := transacaoFromCore(tx)
	m.ID = 0
	if err := s.db.WithContext(ctx).Table(t.transactions).Create(&m).Error; err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID = m.ID

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", tx.ID,
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())
	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	t, err := tablesFor(tx.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	m := transacaoFromCore(tx)
	res := s.db.WithContext(ctx).Table(t.transactions).
		Where("id = ? AND cliente_id = ?", tx.ID, tx.ClientID).
		Updates(map[string]any{
			"descricao":          m.Descricao,
			"valor_centavos":     m.ValorCentavos,
			"data":               m.Data,
			"categoria_id":       m.CategoriaID,
			"forma_pagamento_id": m.FormaPagamentoID,
			"status":             m.Status,
			"parcela_atual":      m.ParcelaAtual,
			"total_parcelas":     m.TotalParcelas,
			"data_liquidacao":    m.DataLiquidacao,
		})
	if err := affected(res, "update transaction"); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, clientID int64, kind core.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Table(t.transactions).
		Where("id = ? AND cliente_id = ?", id, clientID).Delete(&transacaoColumns{})
	return affected(res, "delete transaction")
}

func (s *Store) MarkOverdue(ctx context.Context, kind core.Kind, before core.Date) (int64, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Table(t.transactions).
		Where("status = ? AND data < ?", string(core.StatusPending), before.String()).
		Update("status", string(core.StatusOverdue))
	if res.Error != nil {
		return 0, fmt.Errorf("mark overdue: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) CountTransactionsByPaymentMethod(ctx context.Context, paymentMethodID int64) (int, error) {
	var total int64
	for _, table := range []string{"receitas", "despesas"} {
		var n int64
		err := s.db.WithContext(ctx).Table(table).Where("forma_pagamento_id = ?", paymentMethodID).Count(&n).Error
		if err != nil {
			return 0, fmt.Errorf("count %s by payment method: %w", table, err)
		}
		total += n
	}
	return int(total), nil
}

// Goals

type metaRow struct {
	metaModel
	CategoriaNome string
	CategoriaCor  string
}

func (s *Store) ListGoals(ctx context.Context, clientID int64) ([]core.GoalView, error) {
	var rows []metaRow
	err := s.db.WithContext(ctx).Table("metas AS m").
		Select(`m.*, COALESCE(cr.nome, cd.nome, '') AS categoria_nome, COALESCE(cr.cor, cd.cor, '') AS categoria_cor`).
		Joins("LEFT JOIN categorias_receita cr ON cr.id = m.categoria_receita_id").
		Joins("LEFT JOIN categorias_despesa cd ON cd.id = m.categoria_despesa_id").
		Where("m.cliente_id = ?", clientID).
		Order("m.prazo, m.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]core.GoalView, len(rows))
	for i, r := range rows {
		out[i] = core.GoalView{Goal: r.toCore(), CategoryName: r.CategoriaNome, CategoryColor: r.CategoriaCor}
	}
	return out, nil
}

func (s *Store) GetGoal(ctx context.Context, clientID int64, id int64) (core.Goal, error) {
	var m metaModel
	if err := s.db.WithContext(ctx).Where("id = ? AND cliente_id = ?", id, clientID).Take(&m).Error; err != nil {
		return core.Goal{}, notFound(err)
	}
	return m.toCore(), nil
}

func (s *Store) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	m := metaFromCore(g)
	m.ID = 0
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	g.ID = m.ID
	return g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	m := metaFromCore(g)
	res := s.db.WithContext(ctx).Model(&metaModel{}).
		Where("id = ? AND cliente_id = ?", g.ID, g.ClientID).
		Updates(map[string]any{
			"tipo":                 m.Tipo,
			"nome":                 m.Nome,
			"valor_alvo_centavos":  m.ValorAlvoCentavos,
			"valor_atual_centavos": m.ValorAtualCentavos,
			"prazo":                m.Prazo,
			"categoria_receita_id": m.CategoriaReceitaID,
			"categoria_despesa_id": m.CategoriaDespesaID,
		})
	if err := affected(res, "update goal"); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, clientID int64, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND cliente_id = ?", id, clientID).Delete(&metaModel{})
	return affected(res, "delete goal")
}

// Payment methods

func (s *Store) ListPaymentMethods(ctx context.Context, includeInactive bool) ([]core.PaymentMethod, error) {
	q := s.db.WithContext(ctx).Model(&formaPagamentoModel{})
	if !includeInactive {
		q = q.Where("ativo = ?", true)
	}
	var ms []formaPagamentoModel
	if err := q.Order("nome").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	out := make([]core.PaymentMethod, len(ms))
	for i, m := range ms {
		out[i] = m.toCore()
	}
	return out, nil
}

func (s *Store) GetPaymentMethod(ctx context.Context, id int64) (core.PaymentMethod, error) {
	var m formaPagamentoModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return core.PaymentMethod{}, notFound(err)
	}
	return m.toCore(), nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, p core.PaymentMethod) (core.PaymentMethod, error) {
	m := formaPagamentoModel{Nome: p.Name, Ativo: p.Active}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return core.PaymentMethod{}, fmt.Errorf("insert payment method: %w", duplicate(err))
	}
	return m.toCore(), nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, p core.PaymentMethod) (core.PaymentMethod, error) {
	res := s.db.WithContext(ctx).Model(&formaPagamentoModel{}).Where("id = ?", p.ID).
		Updates(map[string]any{"nome": p.Name, "ativo": p.Active})
	if err := affected(res, "update payment method"); err != nil {
		return core.PaymentMethod{}, duplicate(err)
	}
	return p, nil
}

func (s *Store) SetPaymentMethodActive(ctx context.Context, id int64, active bool) error {
	res := s.db.WithContext(ctx).Model(&formaPagamentoModel{}).Where("id = ?", id).Update("ativo", active)
	return affected(res, "update payment method")
}

func (s *Store) DeletePaymentMethod(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&formaPagamentoModel{}, id)
	return affected(res, "delete payment method")
}
