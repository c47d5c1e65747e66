package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGuideHandler(t *testing.T) {
	handler, err := NewGuideHandler()
	if err != nil {
		t.Fatalf("NewGuideHandler() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/guide", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GuideHandler() status = %v, want %v", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("GuideHandler() Content-Type = %v, want text/html; charset=utf-8", got)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Annotation guide") {
		t.Error("GuideHandler() should render the guide title")
	}
	// The markdown table of labels should come out as an HTML table.
	if !strings.Contains(body, "<table>") {
		t.Error("GuideHandler() should render markdown tables")
	}
}

func TestGuideHandler_MethodNotAllowed(t *testing.T) {
	handler, err := NewGuideHandler()
	if err != nil {
		t.Fatalf("NewGuideHandler() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/guide", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GuideHandler() status = %v, want %v", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHomeHandler(t *testing.T) {
	handler := NewHomeHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("HomeHandler() status = %v, want %v", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{"LexLabel", "/api/records/next", "/api/batch", "/api/export"} {
		if !strings.Contains(body, want) {
			t.Errorf("HomeHandler() body should contain %q", want)
		}
	}
}

func TestHomeHandler_UnknownPath(t *testing.T) {
	handler := NewHomeHandler()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("HomeHandler() status = %v, want %v", w.Code, http.StatusNotFound)
	}
}
