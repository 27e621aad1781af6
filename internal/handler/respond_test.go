package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/basket/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindAuth, http.StatusUnauthorized},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindRemote, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.kind); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody errorBody
	}{
		{"validation", apperr.Validation("update category", "default categories cannot be modified"), 400, errorBody{"default categories cannot be modified", "validation"}},
		{"not found", apperr.NotFound("get list", "list not found"), 404, errorBody{"list not found", "not_found"}},
		{"plain", errors.New("disk I/O error"), 500, errorBody{"disk I/O error", "remote"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest("GET", "/", nil), logger, tt.err)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var got errorBody
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, tt.wantBody)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"name":"Produce"}`, ""},
		{"empty", ``, "request body is required"},
		{"malformed", `{"name":`, "invalid JSON"},
		{"too large", `{"name":"` + strings.Repeat("x", maxJSONBody) + `"}`, "request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Name string `json:"name"`
			}
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			err := decodeJSON(httptest.NewRecorder(), req, &v)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("decodeJSON: %v", err)
				}
				if v.Name != "Produce" {
					t.Errorf("name = %q, want %q", v.Name, "Produce")
				}
				return
			}
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if msg := apperr.Message(err); msg != tt.wantErr {
				t.Errorf("message = %q, want %q", msg, tt.wantErr)
			}
		})
	}
}
