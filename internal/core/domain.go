package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "receita"
	KindExpense Kind = "despesa"

	GoalHigh   GoalTier = "alta"
	GoalMedium GoalTier = "media"
	GoalLow    GoalTier = "baixa"
)

type (
	// Kind separates income rows from expense rows. Categories and transactions
	// live in one table per kind.
	Kind string

	GoalTier string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Client is the tenant record ("cliente") gating dashboard access.
	Client struct {
		ID         int64
		AuthUserID string // identity issued by the hosted auth service
		Name       string
		Email      string
		Phone      string
		Active     bool
		CreatedAt  time.Time
	}

	Category struct {
		ID       int64
		ClientID int64
		Kind     Kind
		Name     string
		Color    string
		Active   bool
	}

	PaymentMethod struct {
		ID     int64
		Name   string
		Active bool
	}

	Transaction struct {
		ID              int64
		ClientID        int64
		Kind            Kind
		Description     string
		Amount          Money
		Date            Date
		CategoryID      *int64
		PaymentMethodID *int64
		Status          Status
		Installment     int // 1-based index, 0 when not paid in installments
		Installments    int
		SettledOn       Date // zero until received/paid
	}

	// TransactionView is a transaction joined with its category and payment
	// method names, as rendered by list views and charts.
	TransactionView struct {
		Transaction
		CategoryName      string
		CategoryColor     string
		PaymentMethodName string
	}

	Goal struct {
		ID                int64
		ClientID          int64
		Kind              Kind
		Name              string
		Target            Money
		Current           Money
		Deadline          Date
		IncomeCategoryID  *int64
		ExpenseCategoryID *int64
	}

	GoalView struct {
		Goal
		CategoryName  string
		CategoryColor string
		Progress      Progress
	}
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("name already in use")
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidColor      = errors.New("invalid color")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidInstalment = errors.New("invalid installment")
	ErrGoalCategory      = errors.New("goal must reference exactly one category of its kind")
)

// ParseKind accepts the singular and plural Portuguese names used in routes.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "receita", "receitas":
		return KindIncome, nil
	case "despesa", "despesas":
		return KindExpense, nil
	}
	return "", ErrInvalidKind
}

func (k Kind) Validate() error {
	if k != KindIncome && k != KindExpense {
		return ErrInvalidKind
	}
	return nil
}

// Plural returns the route segment for the kind.
func (k Kind) Plural() string {
	return string(k) + "s"
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

const DateLayout = "2006-01-02"

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddMonths moves the date n months ahead, clamping to the last day of the
// target month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.AuthUserID) == "" {
		return errors.New("empty auth user id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 60 {
		return errors.New("name too long (max 60 characters)")
	}
	if c.Color != "" && !isHexColor(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (p PaymentMethod) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 60 {
		return errors.New("name too long (max 60 characters)")
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Status.ValidFor(t.Kind) {
		return ErrInvalidStatus
	}
	if t.Installments < 0 || t.Installment < 0 {
		return ErrInvalidInstalment
	}
	if t.Installments > 0 && (t.Installment < 1 || t.Installment > t.Installments) {
		return ErrInvalidInstalment
	}
	if t.Installments == 0 && t.Installment != 0 {
		return ErrInvalidInstalment
	}
	return nil
}

func (g Goal) Validate() error {
	if err := g.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return errors.New("invalid deadline: " + err.Error())
	}
	if _, err := g.CategoryID(); err != nil {
		return err
	}
	return nil
}

// CategoryID returns the single category the goal points at. Income goals
// must reference an income category only, expense goals an expense one.
func (g Goal) CategoryID() (int64, error) {
	switch g.Kind {
	case KindIncome:
		if g.IncomeCategoryID == nil || g.ExpenseCategoryID != nil {
			return 0, ErrGoalCategory
		}
		return *g.IncomeCategoryID, nil
	case KindExpense:
		if g.ExpenseCategoryID == nil || g.IncomeCategoryID != nil {
			return 0, ErrGoalCategory
		}
		return *g.ExpenseCategoryID, nil
	}
	return 0, ErrInvalidKind
}

func isHexColor(s string) bool {
	if len(s) != 7 && len(s) != 4 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
