package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"financas/internal/core"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParser_JSONAndForm(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantJSON    bool
	}{
		{"json", "application/json", `{"descricao":"Mercado","valor":12.5,"categoria_id":3,"ativo":false}`, true},
		{"form", "application/x-www-form-urlencoded", "descricao=Mercado&valor=12%2C50&categoria_id=3&ativo=false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)

			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
			if got := p.Get("descricao"); got != "Mercado" {
				t.Errorf("Get(descricao) = %q", got)
			}
			m, err := p.Money("valor")
			if err != nil || m.Cents != 1250 {
				t.Errorf("Money(valor) = %v, %v", m, err)
			}
			id, err := p.ID("categoria_id")
			if err != nil || id == nil || *id != 3 {
				t.Errorf("ID(categoria_id) = %v, %v", id, err)
			}
			active, err := p.Bool("ativo")
			if err != nil || active == nil || *active {
				t.Errorf("Bool(ativo) = %v, %v", active, err)
			}
			if p.Has("status") {
				t.Error("Has(status) should be false")
			}
		})
	}
}

func TestRequestBodyParser_Empty(t *testing.T) {
	p := newParser(t, "", "")

	if p.Get("nome") != "" {
		t.Error("empty body should yield empty values")
	}
	id, err := p.ID("forma_pagamento_id")
	if err != nil || id != nil {
		t.Errorf("ID on missing key = %v, %v", id, err)
	}
	n, err := p.Int("parcelas", 1)
	if err != nil || n != 1 {
		t.Errorf("Int default = %d, %v", n, err)
	}
	active, err := p.Bool("ativo")
	if err != nil || active != nil {
		t.Errorf("Bool on missing key = %v, %v", active, err)
	}
	d, err := p.Date("data")
	if err != nil || !d.IsZero() {
		t.Errorf("Date on missing key = %v, %v", d, err)
	}
}

func TestRequestBodyParser_BadValues(t *testing.T) {
	p := newParser(t, "application/json", `{"valor":"abc","data":"31/01/2025","categoria_id":"x","parcelas":"dois","ativo":"talvez"}`)

	if _, err := p.Money("valor"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("Money error = %v", err)
	}
	if _, err := p.Date("data"); !errors.Is(err, errBadField) {
		t.Errorf("Date error = %v", err)
	}
	if _, err := p.ID("categoria_id"); !errors.Is(err, errBadField) {
		t.Errorf("ID error = %v", err)
	}
	if _, err := p.Int("parcelas", 1); !errors.Is(err, errBadField) {
		t.Errorf("Int error = %v", err)
	}
	if _, err := p.Bool("ativo"); !errors.Is(err, errBadField) {
		t.Errorf("Bool error = %v", err)
	}
}

func TestRequestBodyParser_BrazilianAmounts(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        int64
		wantErr     bool
	}{
		{"json grouped string", "application/json", `{"valor":"1.234,56"}`, 123456, false},
		{"json number", "application/json", `{"valor":1.234}`, 123, false},
		{"json formatted", "application/json", `{"valor":"R$ 1.234,56"}`, 123456, false},
		{"json dot grouped integer", "application/json", `{"valor":"1.234"}`, 0, true},
		{"form grouped", "application/x-www-form-urlencoded", "valor=1.234%2C56", 123456, false},
		{"form dot grouped integer", "application/x-www-form-urlencoded", "valor=1.234", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)
			m, err := p.Money("valor")
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidAmount) {
					t.Errorf("Money(valor) error = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if err != nil || m.Cents != tt.want {
				t.Errorf("Money(valor) = %d, %v, want %d", m.Cents, err, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestRequestBodyParser_SanitizesControlChars(t *testing.T) {
	p := newParser(t, "application/json", `{"nome":"  Mer\u0000cado\u0007  "}`)
	if got := p.Get("nome"); got != "Mercado" {
		t.Errorf("Get(nome) = %q, want %q", got, "Mercado")
	}
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     url.Values
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"default is current month", url.Values{}, "2025-03-01", "2025-04-01", false},
		{"month", url.Values{"modo": {"mes"}, "ano": {"2024"}, "mes": {"12"}}, "2024-12-01", "2025-01-01", false},
		{"year", url.Values{"modo": {"ano"}, "ano": {"2024"}}, "2024-01-01", "2025-01-01", false},
		{"custom end is inclusive", url.Values{"modo": {"personalizado"}, "inicio": {"2025-01-10"}, "fim": {"2025-01-20"}}, "2025-01-10", "2025-01-21", false},
		{"non-numeric month uses current", url.Values{"modo": {"mes"}, "mes": {"abc"}}, "2025-03-01", "2025-04-01", false},
		{"invalid month falls back", url.Values{"modo": {"mes"}, "mes": {"13"}}, "2025-03-01", "2025-04-01", true},
		{"custom reversed falls back", url.Values{"modo": {"personalizado"}, "inicio": {"2025-02-01"}, "fim": {"2025-01-01"}}, "2025-03-01", "2025-04-01", true},
		{"unknown mode falls back", url.Values{"modo": {"semana"}}, "2025-03-01", "2025-04-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePeriod(tt.query, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if p.Start != tt.wantStart || p.End != tt.wantEnd {
				t.Errorf("period = %+v, want [%s, %s)", p, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPathValues(t *testing.T) {
	mux := http.NewServeMux()
	var gotKind core.Kind
	var gotID int64
	var idErr error
	mux.HandleFunc("GET /x/{tipo}/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotKind, _ = PathKind(r)
		gotID, idErr = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/despesas/42", nil))
	if gotKind != core.KindExpense || gotID != 42 || idErr != nil {
		t.Errorf("got kind=%q id=%d err=%v", gotKind, gotID, idErr)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/receitas/0", nil))
	if gotKind != core.KindIncome || idErr == nil {
		t.Errorf("zero id should fail, got kind=%q err=%v", gotKind, idErr)
	}
}
