package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financas/internal/core"
)

func TestNewJournal_MissingSpreadsheetID(t *testing.T) {
	_, err := NewJournal(context.Background(), Config{CredentialsJSON: "{}"})
	require.EqualError(t, err, "missing spreadsheet id")
}

func TestNewJournal_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewJournal(context.Background(), Config{SpreadsheetID: "sheet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestNewJournal_UnreadableCredentialsFile(t *testing.T) {
	_, err := NewJournal(context.Background(), Config{SpreadsheetID: "sheet", CredentialsFile: "/non/existent/sa.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read service account file")
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Lancamentos", 2025, "2025 Lancamentos"},
		{"  Lancamentos ", 2024, "2024 Lancamentos"},
		{"2023 Lancamentos", 2025, "2023 Lancamentos"},
		{"", 2025, ""},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func testEvent() core.TransactionEvent {
	return core.TransactionEvent{
		Op:           core.EventCreated,
		Kind:         core.KindExpense,
		ID:           42,
		ClientID:     7,
		Description:  "Mercado",
		Amount:       core.Money{Cents: 12345},
		Date:         core.NewDate(2025, 3, 10),
		Status:       core.StatusPaid,
		CategoryName: "Alimentação",
		Timestamp:    time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestEventRow(t *testing.T) {
	row := EventRow(testEvent())

	require.Len(t, row, len(HeaderRow))
	assert.Equal(t, "2025-03-10 14:30:00", row[0])
	assert.Equal(t, "criado", row[1])
	assert.Equal(t, "despesa", row[2])
	assert.Equal(t, int64(42), row[3])
	assert.Equal(t, "2025-03-10", row[5])
	assert.Equal(t, "Alimentação", row[7])
	assert.Equal(t, "Pago", row[8])
	assert.InDelta(t, 123.45, row[9], 0.001)

	ev := testEvent()
	ev.CategoryName = ""
	ev.Status = ""
	row = EventRow(ev)
	assert.Equal(t, core.UncategorizedName, row[7])
	assert.Equal(t, "", row[8])
}

func TestAppendEvent_NoService(t *testing.T) {
	j := &Journal{spreadsheetID: "test"}
	_, err := j.AppendEvent(context.Background(), testEvent())
	require.Error(t, err)
}

// fakeSheets answers the four Sheets calls the journal makes and records them.
type fakeSheets struct {
	mu       sync.Mutex
	titles   []string
	calls    []string
	appended [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/"):
		f.calls = append(f.calls, "get")
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, title := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "addSheet")
		_, _ = io.WriteString(w, `{}`)
	case strings.HasSuffix(path, ":append"):
		f.calls = append(f.calls, "append")
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		_, _ = io.WriteString(w, `{"updates":{"updatedRange":"'2025 Lancamentos'!A2:J2"}}`)
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "header")
		_, _ = io.WriteString(w, `{}`)
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusBadRequest)
	}
}

func newTestJournal(t *testing.T, fake *fakeSheets) *Journal {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return newJournal(svc, "spreadsheet-id", "Lancamentos")
}

func TestAppendEvent_CreatesSheetOnce(t *testing.T) {
	fake := &fakeSheets{}
	j := newTestJournal(t, fake)
	ctx := context.Background()

	ref, err := j.AppendEvent(ctx, testEvent())
	require.NoError(t, err)
	assert.Equal(t, "'2025 Lancamentos'!A2:J2", ref)

	_, err = j.AppendEvent(ctx, testEvent())
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "addSheet", "header", "append", "append"}, fake.calls)
	require.Len(t, fake.appended, 2)
	assert.Equal(t, "Mercado", fake.appended[0][6])
}

func TestAppendEvent_ExistingSheet(t *testing.T) {
	fake := &fakeSheets{titles: []string{"2025 Lancamentos"}}
	j := newTestJournal(t, fake)

	_, err := j.AppendEvent(context.Background(), testEvent())
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "append"}, fake.calls)
}
