package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]int{"id": 7}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if strings.TrimSpace(w.Body.String()) != `{"id":7}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().Header("X-Custom", "value").Write(w)

	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("Custom header not set")
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", w.Body.String())
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("HX-Trigger should be absent without triggers")
	}
}

func TestResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		TriggerDataChanged("despesas").
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Despesa registrada").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(trigger), &decoded); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	for _, key := range []string{"despesas:changed", "resumo:refresh", "show-notification"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("HX-Trigger missing %q: %s", key, trigger)
		}
	}
	notif := decoded["show-notification"].(map[string]any)
	if notif["type"] != "success" || notif["message"] != "Despesa registrada" {
		t.Errorf("unexpected notification %v", notif)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *ResponseBuilder
		wantStatus int
		wantError  string
	}{
		{"bad request", BadRequestError("Formato inválido"), http.StatusBadRequest, "Formato inválido"},
		{"unprocessable entity", UnprocessableEntityError("Valor inválido"), http.StatusUnprocessableEntity, "Valor inválido"},
		{"internal server error", InternalServerError("Operação falhou"), http.StatusInternalServerError, "Operação falhou"},
		{"not found", NotFoundError("Registro não encontrado"), http.StatusNotFound, "Registro não encontrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("erro = %q, want %q", body.Error, tt.wantError)
			}
			if !strings.Contains(w.Header().Get("HX-Trigger"), `"type":"error"`) {
				t.Errorf("error toast missing: %s", w.Header().Get("HX-Trigger"))
			}
		})
	}
}

func TestUnauthorizedError(t *testing.T) {
	w := httptest.NewRecorder()

	UnauthorizedError("Sessão ausente").Write(w)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("WWW-Authenticate header missing")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("401 should not raise a toast")
	}
}

func TestNotificationTypes(t *testing.T) {
	tests := []struct {
		notifType NotificationType
		want      string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		NewResponse().
			TriggerNotification(tt.notifType, "test", 1000).
			Write(w)

		trigger := w.Header().Get("HX-Trigger")
		if !strings.Contains(trigger, `"type":"`+tt.want+`"`) {
			t.Errorf("Notification type %q not found in trigger: %s", tt.want, trigger)
		}
	}
}
