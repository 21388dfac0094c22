// Package google appends transaction events to a Google Sheets journal, one
// sheet per year ("2025 Lancamentos"), so the operator keeps a spreadsheet
// copy of every change made through the dashboard.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financas/internal/core"
)

// HeaderRow is written on the first line of every journal sheet.
var HeaderRow = []any{"Registrado em", "Operação", "Tipo", "ID", "Cliente", "Data", "Descrição", "Categoria", "Status", "Valor"}

const columns = "A:J"

// Config selects the spreadsheet and the service account used to write it.
type Config struct {
	SpreadsheetID string
	// SheetName is the base name; the event year is prefixed to it.
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Journal struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string

	mu     sync.Mutex
	sheets map[string]bool
}

// NewJournal creates a Sheets client with service account credentials.
// CredentialsJSON wins over CredentialsFile; with neither set
// GOOGLE_APPLICATION_CREDENTIALS is tried.
func NewJournal(ctx context.Context, cfg Config) (*Journal, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	credentials, err := loadCredentials(ctx, cfg.CredentialsJSON, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newJournal(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

func newJournal(svc *gsheet.Service, spreadsheetID, sheetBase string) *Journal {
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Lancamentos"
	}
	return &Journal{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     strings.TrimSpace(sheetBase),
		sheets:        map[string]bool{},
	}
}

func loadCredentials(ctx context.Context, inline, file string) ([]byte, error) {
	inline = strings.TrimSpace(inline)
	file = strings.TrimSpace(file)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account credentials", "path", file, "size", len(data))
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// AppendEvent writes ev as a new row of its year's sheet, creating the sheet
// with a header row first if needed. It returns the updated A1 range.
func (j *Journal) AppendEvent(ctx context.Context, ev core.TransactionEvent) (string, error) {
	if j.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	year := ev.Date.Year()
	if ev.Date.IsZero() {
		year = ev.Timestamp.Year()
	}
	sheet := yearPrefixedName(j.sheetBase, year)
	if err := j.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	rng := fmt.Sprintf("'%s'!%s", sheet, columns)
	vr := &gsheet.ValueRange{Values: [][]any{EventRow(ev)}}
	resp, err := j.svc.Spreadsheets.Values.Append(j.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// ensureSheet adds sheet with its header when the spreadsheet lacks it.
// Known titles are remembered for the life of the Journal.
func (j *Journal) ensureSheet(ctx context.Context, sheet string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.sheets[sheet] {
		return nil
	}

	ss, err := j.svc.Spreadsheets.Get(j.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			j.sheets[s.Properties.Title] = true
		}
	}
	if j.sheets[sheet] {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: sheet}},
	}}}
	if _, err := j.svc.Spreadsheets.BatchUpdate(j.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", sheet, err)
	}
	header := &gsheet.ValueRange{Values: [][]any{HeaderRow}}
	if _, err := j.svc.Spreadsheets.Values.Update(j.spreadsheetID, fmt.Sprintf("'%s'!A1:J1", sheet), header).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write header of %s: %w", sheet, err)
	}
	slog.InfoContext(ctx, "Created journal sheet", "sheet", sheet)
	j.sheets[sheet] = true
	return nil
}

// EventRow lays ev out in HeaderRow order. Amounts go out as numbers so the
// sheet can sum them.
func EventRow(ev core.TransactionEvent) []any {
	date := ""
	if !ev.Date.IsZero() {
		date = ev.Date.String()
	}
	category := ev.CategoryName
	if category == "" {
		category = core.UncategorizedName
	}
	status := ""
	if ev.Status != "" {
		status = ev.Status.Label()
	}
	return []any{
		ev.Timestamp.Format("2006-01-02 15:04:05"),
		string(ev.Op),
		string(ev.Kind),
		ev.ID,
		ev.ClientID,
		date,
		ev.Description,
		category,
		status,
		ev.Amount.Reais(),
	}
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
