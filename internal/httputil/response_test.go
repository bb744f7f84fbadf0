package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSONError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONError(rec, http.StatusBadRequest, "test error")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %s, want application/json", ct)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "test error" {
		t.Errorf("error = %s, want 'test error'", resp["error"])
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"populated": 42})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var resp map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["populated"] != 42 {
		t.Errorf("populated = %d, want 42", resp["populated"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	MethodNotAllowed(rec, http.MethodGet)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodGet {
		t.Errorf("Allow = %q, want GET", got)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		render     func(io.Writer) error
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{
			name:       "success",
			render:     func(w io.Writer) error { _, err := io.WriteString(w, "<html></html>"); return err },
			wantStatus: http.StatusOK,
			wantType:   "text/html",
			wantBody:   "<html></html>",
		},
		{
			name: "failure after partial output",
			render: func(w io.Writer) error {
				io.WriteString(w, "half")
				return errors.New("unknown channel")
			},
			wantStatus: http.StatusInternalServerError,
			wantType:   "application/json",
			wantBody:   "{\"error\":\"unknown channel\"}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Render(rec, "text/html", tt.render)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.wantType {
				t.Errorf("content-type = %q, want %q", ct, tt.wantType)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAttachment(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Attachment(rec, "wse.png")
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="wse.png"` {
		t.Errorf("Content-Disposition = %q", got)
	}
}
