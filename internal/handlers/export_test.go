package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"lexlabel/internal/review/mocks"
)

func TestExportHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	csv := "decision_id,pred_art,article_text,text,implicit,revoir\n100__2019-01-02,L123-4,art,chunk,yes,\n"

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().ExportFilename().Return("annotations_updated_20260823_120000.csv")
	mockService.EXPECT().
		ExportCSV(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, csv)
			return err
		})

	handler := NewExportHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ExportHandler() status = %v, want %v", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Errorf("ExportHandler() Content-Type = %v, want text/csv; charset=utf-8", got)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, `filename="annotations_updated_20260823_120000.csv"`) {
		t.Errorf("ExportHandler() Content-Disposition = %v", disposition)
	}
	if w.Body.String() != csv {
		t.Errorf("ExportHandler() body = %q, want %q", w.Body.String(), csv)
	}
}

func TestExportHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	handler := NewExportHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("ExportHandler() status = %v, want %v", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestExportHandler_StreamErrorLoggedOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().ExportFilename().Return("annotations_updated_20260823_120000.csv")
	mockService.EXPECT().ExportCSV(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	handler := NewExportHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// Headers were already committed, so the status stays 200.
	if w.Code != http.StatusOK {
		t.Errorf("ExportHandler() status = %v, want %v", w.Code, http.StatusOK)
	}
}
