package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"lexlabel/internal/review"
	"lexlabel/internal/review/mocks"
)

func multipartBody(t *testing.T, filename, content string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart close error = %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestBatchHandler_MultipartUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	csv := "decision_id,text\n100__2019-01-02,some chunk\n"

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		ImportCSV(gomock.Any(), "batch.csv", gomock.Any()).
		DoAndReturn(func(_ any, _ string, r io.Reader) (review.ImportSummary, error) {
			payload, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("failed to read upload: %v", err)
			}
			if string(payload) != csv {
				t.Errorf("ImportCSV payload = %q, want %q", payload, csv)
			}
			return review.ImportSummary{BatchID: 1, Filename: "batch.csv", Total: 1, Remaining: 1}, nil
		})

	handler := NewBatchHandler(mockService)

	body, contentType := multipartBody(t, "batch.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/api/batch", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("BatchHandler() status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp ImportResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("BatchHandler() invalid JSON response: %v", err)
	}
	if resp.BatchID != 1 || resp.Total != 1 || resp.Remaining != 1 {
		t.Errorf("BatchHandler() response = %+v", resp)
	}
}

func TestBatchHandler_RawBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		ImportCSV(gomock.Any(), "reexport.csv", gomock.Any()).
		Return(review.ImportSummary{BatchID: 2, Filename: "reexport.csv", Total: 3, Remaining: 3}, nil)

	handler := NewBatchHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/batch?filename=reexport.csv",
		strings.NewReader("decision_id,text\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("BatchHandler() status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestBatchHandler_RawBodyDefaultFilename(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockService(ctrl)
	mockService.EXPECT().
		ImportCSV(gomock.Any(), "upload.csv", gomock.Any()).
		Return(review.ImportSummary{BatchID: 1, Filename: "upload.csv"}, nil)

	handler := NewBatchHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/batch", strings.NewReader("decision_id\n"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("BatchHandler() status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestBatchHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		setupMock  func(*mocks.MockService)
		wantStatus int
	}{
		{
			name:   "validation error from service",
			method: http.MethodPost,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().ImportCSV(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(review.ImportSummary{},
						&review.ValidationError{Field: "decision_id", Message: "missing decision_id column"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			setupMock:  func(m *mocks.MockService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockService(ctrl)
			tt.setupMock(mockService)

			handler := NewBatchHandler(mockService)

			req := httptest.NewRequest(tt.method, "/api/batch", strings.NewReader("x\n"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("BatchHandler() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
