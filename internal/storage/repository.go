package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"financas/internal/core"
	"financas/internal/ports"
)

var _ ports.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for health checks.
func (r *SQLiteRepository) DB() *sql.DB { return r.db }

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
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// duplicate turns a UNIQUE constraint failure into core.ErrDuplicateName.
func duplicate(err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", core.ErrDuplicateName, err)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", core.ErrDuplicateName, err)
	}
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Clients

const clientColumns = `id, auth_user_id, nome, email, telefone, ativo, criado_em`

func scanClient(row interface{ Scan(...any) error }) (core.Client, error) {
	var c core.Client
	err := row.Scan(&c.ID, &c.AuthUserID, &c.Name, &c.Email, &c.Phone, &c.Active, &c.CreatedAt)
	return c, err
}

func (r *SQLiteRepository) GetClientByAuthUser(ctx context.Context, authUserID string) (core.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clientes WHERE auth_user_id = ?`, authUserID))
	if err != nil {
		return core.Client{}, notFound(err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, id int64) (core.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clientes WHERE id = ?`, id))
	if err != nil {
		return core.Client{}, notFound(err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clientes (auth_user_id, nome, email, telefone, ativo, criado_em)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(auth_user_id) DO NOTHING`,
		c.AuthUserID, c.Name, c.Email, c.Phone, c.Active, c.CreatedAt)
	if err != nil {
		return core.Client{}, fmt.Errorf("insert client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.GetClientByAuthUser(ctx, c.AuthUserID)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Client{}, fmt.Errorf("read client id: %w", err)
	}

	slog.InfoContext(ctx, "Client saved to SQLite", "id", c.ID, "auth_user_id", c.AuthUserID)
	return c, nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clientes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []core.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SetClientActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE clientes SET ativo = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return checkAffected(res)
}

// Categories

func (r *SQLiteRepository) ListCategories(ctx context.Context, clientID int64, kind core.Kind, includeInactive bool) ([]core.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q := `SELECT id, cliente_id, nome, cor, ativo FROM ` + t.categories + ` WHERE cliente_id = ?`
	if !includeInactive {
		q += ` AND ativo = 1`
	}
	q += ` ORDER BY nome`

	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c := core.Category{Kind: kind}
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Name, &c.Color, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, clientID int64, kind core.Kind, id int64) (core.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return core.Category{}, err
	}
	c := core.Category{Kind: kind}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, cliente_id, nome, cor, ativo FROM `+t.categories+` WHERE id = ? AND cliente_id = ?`,
		id, clientID).Scan(&c.ID, &c.ClientID, &c.Name, &c.Color, &c.Active)
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return core.Category{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO `+t.categories+` (cliente_id, nome, cor, ativo) VALUES (?, ?, ?, ?)`,
		c.ClientID, c.Name, c.Color, c.Active)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return core.Category{}, fmt.Errorf("read category id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return core.Category{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+t.categories+` SET nome = ?, cor = ?, ativo = ? WHERE id = ? AND cliente_id = ?`,
		c.Name, c.Color, c.Active, c.ID, c.ClientID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (r *SQLiteRepository) SetCategoryActive(ctx context.Context, clientID int64, kind core.Kind, id int64, active bool) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+t.categories+` SET ativo = ? WHERE id = ? AND cliente_id = ?`, active, id, clientID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, clientID int64, kind core.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+t.categories+` WHERE id = ? AND cliente_id = ?`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) CountTransactionsByCategory(ctx context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+t.transactions+` WHERE cliente_id = ? AND categoria_id = ?`,
		clientID, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountGoalsByCategory(ctx context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM metas WHERE cliente_id = ? AND `+t.goalColumn+` = ?`,
		clientID, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return n, nil
}

// Transactions

func (r *SQLiteRepository) ListTransactions(ctx context.Context, clientID int64, kind core.Kind, period core.Period) ([]core.TransactionView, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.cliente_id, t.descricao, t.valor_centavos, t.data, t.categoria_id,
		       t.forma_pagamento_id, t.status, t.parcela_atual, t.total_parcelas, t.data_liquidacao,
		       COALESCE(c.nome, ''), COALESCE(c.cor, ''), COALESCE(f.nome, '')
		FROM `+t.transactions+` t
		LEFT JOIN `+t.categories+` c ON c.id = t.categoria_id
		LEFT JOIN formas_pagamento f ON f.id = t.forma_pagamento_id
		WHERE t.cliente_id = ? AND t.data >= ? AND t.data < ?
		ORDER BY t.data DESC, t.id DESC`,
		clientID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionView
	for rows.Next() {
		v := core.TransactionView{Transaction: core.Transaction{Kind: kind}}
		var (
			date, status     string
			category, method sql.NullInt64
			settled          sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.ClientID, &v.Description, &v.Amount.Cents, &date, &category,
			&method, &status, &v.Installment, &v.Installments, &settled,
			&v.CategoryName, &v.CategoryColor, &v.PaymentMethodName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if err := fillTransaction(&v.Transaction, date, status, category, method, settled); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func fillTransaction(t *core.Transaction, date, status string, category, method sql.NullInt64, settled sql.NullString) error {
	d, err := core.ParseDate(date)
	if err != nil {
		return fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = d
	t.Status = core.Status(status)
	if category.Valid {
		id := category.Int64
		t.CategoryID = &id
	}
	if method.Valid {
		id := method.Int64
		t.PaymentMethodID = &id
	}
	if settled.Valid && settled.String != "" {
		if t.SettledOn, err = core.ParseDate(settled.String); err != nil {
			return fmt.Errorf("parse settlement date %q: %w", settled.String, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, clientID int64, kind core.Kind, id int64) (core.Transaction, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{Kind: kind}
	var (
		date, status     string
		category, method sql.NullInt64
		settled          sql.NullString
	)
	err = r.db.QueryRowContext(ctx, `
		SELECT id, cliente_id, descricao, valor_centavos, data, categoria_id, forma_pagamento_id,
		       status, parcela_atual, total_parcelas, data_liquidacao
		FROM `+t.transactions+` WHERE id = ? AND cliente_id = ?`, id, clientID).
		Scan(&tx.ID, &tx.ClientID, &tx.Description, &tx.Amount.Cents, &date, &category, &method,
			&status, &tx.Installment, &tx.Installments, &settled)
	if err != nil {
		return core.Transaction{}, notFound(err)
	}
	if err := fillTransaction(&tx, date, status, category, method, settled); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func transactionArgs(t core.Transaction) []any {
	var settled any
	if !t.SettledOn.IsZero() {
		settled = t.SettledOn.String()
	}
	return []any{t.Description, t.Amount.Cents, t.Date.String(), nullableID(t.CategoryID),
		nullableID(t.PaymentMethodID), string(t.Status), t.Installment, t.Installments, settled}
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	t, err := tablesFor(tx.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	args := append([]any{tx.ClientID}, transactionArgs(tx)...)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO `+t.transactions+` (cliente_id, descricao, valor_centavos, data, categoria_id,
		    forma_pagamento_id, status, parcela_atual, total_parcelas, data_liquidacao)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if tx.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("read transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"kind", tx.Kind,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())
	return tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	t, err := tablesFor(tx.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	args := append(transactionArgs(tx), tx.ID, tx.ClientID)
	res, err := r.db.ExecContext(ctx, `
		UPDATE `+t.transactions+` SET descricao = ?, valor_centavos = ?, data = ?, categoria_id = ?,
		    forma_pagamento_id = ?, status = ?, parcela_atual = ?, total_parcelas = ?, data_liquidacao = ?
		WHERE id = ? AND cliente_id = ?`, args...)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, clientID int64, kind core.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+t.transactions+` WHERE id = ? AND cliente_id = ?`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) MarkOverdue(ctx context.Context, kind core.Kind, before core.Date) (int64, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+t.transactions+` SET status = ? WHERE status = ? AND data < ?`,
		string(core.StatusOverdue), string(core.StatusPending), before.String())
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) CountTransactionsByPaymentMethod(ctx context.Context, paymentMethodID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM receitas WHERE forma_pagamento_id = ?) +
		       (SELECT COUNT(*) FROM despesas WHERE forma_pagamento_id = ?)`,
		paymentMethodID, paymentMethodID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions by payment method: %w", err)
	}
	return n, nil
}

// Goals

func (r *SQLiteRepository) ListGoals(ctx context.Context, clientID int64) ([]core.GoalView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.cliente_id, m.tipo, m.nome, m.valor_alvo_centavos, m.valor_atual_centavos,
		       m.prazo, m.categoria_receita_id, m.categoria_despesa_id,
		       COALESCE(cr.nome, cd.nome, ''), COALESCE(cr.cor, cd.cor, '')
		FROM metas m
		LEFT JOIN categorias_receita cr ON cr.id = m.categoria_receita_id
		LEFT JOIN categorias_despesa cd ON cd.id = m.categoria_despesa_id
		WHERE m.cliente_id = ?
		ORDER BY m.prazo, m.id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.GoalView
	for rows.Next() {
		var (
			v               core.GoalView
			kind, deadline  string
			income, expense sql.NullInt64
		)
		if err := rows.Scan(&v.ID, &v.ClientID, &kind, &v.Name, &v.Target.Cents, &v.Current.Cents,
			&deadline, &income, &expense, &v.CategoryName, &v.CategoryColor); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if err := fillGoal(&v.Goal, kind, deadline, income, expense); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func fillGoal(g *core.Goal, kind, deadline string, income, expense sql.NullInt64) error {
	g.Kind = core.Kind(kind)
	d, err := core.ParseDate(deadline)
	if err != nil {
		return fmt.Errorf("parse goal deadline %q: %w", deadline, err)
	}
	g.Deadline = d
	if income.Valid {
		id := income.Int64
		g.IncomeCategoryID = &id
	}
	if expense.Valid {
		id := expense.Int64
		g.ExpenseCategoryID = &id
	}
	return nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, clientID int64, id int64) (core.Goal, error) {
	var (
		g               core.Goal
		kind, deadline  string
		income, expense sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cliente_id, tipo, nome, valor_alvo_centavos, valor_atual_centavos, prazo,
		       categoria_receita_id, categoria_despesa_id
		FROM metas WHERE id = ? AND cliente_id = ?`, id, clientID).
		Scan(&g.ID, &g.ClientID, &kind, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline, &income, &expense)
	if err != nil {
		return core.Goal{}, notFound(err)
	}
	if err := fillGoal(&g, kind, deadline, income, expense); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO metas (cliente_id, tipo, nome, valor_alvo_centavos, valor_atual_centavos, prazo,
		    categoria_receita_id, categoria_despesa_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ClientID, string(g.Kind), g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.String(),
		nullableID(g.IncomeCategoryID), nullableID(g.ExpenseCategoryID))
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return core.Goal{}, fmt.Errorf("read goal id: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE metas SET tipo = ?, nome = ?, valor_alvo_centavos = ?, valor_atual_centavos = ?, prazo = ?,
		    categoria_receita_id = ?, categoria_despesa_id = ?
		WHERE id = ? AND cliente_id = ?`,
		string(g.Kind), g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.String(),
		nullableID(g.IncomeCategoryID), nullableID(g.ExpenseCategoryID), g.ID, g.ClientID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, clientID int64, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM metas WHERE id = ? AND cliente_id = ?`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return checkAffected(res)
}

// Payment methods

func (r *SQLiteRepository) ListPaymentMethods(ctx context.Context, includeInactive bool) ([]core.PaymentMethod, error) {
	q := `SELECT id, nome, ativo FROM formas_pagamento`
	if !includeInactive {
		q += ` WHERE ativo = 1`
	}
	q += ` ORDER BY nome`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentMethod
	for rows.Next() {
		var p core.PaymentMethod
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetPaymentMethod(ctx context.Context, id int64) (core.PaymentMethod, error) {
	var p core.PaymentMethod
	err := r.db.QueryRowContext(ctx, `SELECT id, nome, ativo FROM formas_pagamento WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Active)
	if err != nil {
		return core.PaymentMethod{}, notFound(err)
	}
	return p, nil
}

func (r *SQLiteRepository) CreatePaymentMethod(ctx context.Context, p core.PaymentMethod) (core.PaymentMethod, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO formas_pagamento (nome, ativo) VALUES (?, ?)`, p.Name, p.Active)
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("insert payment method: %w", duplicate(err))
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return core.PaymentMethod{}, fmt.Errorf("read payment method id: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) UpdatePaymentMethod(ctx context.Context, p core.PaymentMethod) (core.PaymentMethod, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE formas_pagamento SET nome = ?, ativo = ? WHERE id = ?`, p.Name, p.Active, p.ID)
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("update payment method: %w", duplicate(err))
	}
	if err := checkAffected(res); err != nil {
		return core.PaymentMethod{}, err
	}
	return p, nil
}

func (r *SQLiteRepository) SetPaymentMethodActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE formas_pagamento SET ativo = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeletePaymentMethod(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM formas_pagamento WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return checkAffected(res)
}
