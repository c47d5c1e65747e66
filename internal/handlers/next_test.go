package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"lexlabel/internal/review"
	"lexlabel/internal/review/mocks"
	"lexlabel/internal/storage"
)

func TestNextHandler(t *testing.T) {
	record := &storage.ReviewRecord{
		ID:          "rec-1",
		DecisionID:  "100__2019-01-02",
		PredArticle: "L123-4",
		ArticleText: "Article text",
		ChunkText:   "Chunk text",
	}

	tests := []struct {
		name        string
		method      string
		setupMock   func(*mocks.MockService)
		wantStatus  int
		checkBody   func(*testing.T, ItemResponse)
	}{
		{
			name:   "returns pending record",
			method: http.MethodGet,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().Next(gomock.Any()).Return(review.Item{
					Record:   record,
					Progress: review.Progress{Total: 10, Remaining: 4},
				}, nil)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, resp ItemResponse) {
				if resp.Done {
					t.Error("NextHandler() done = true, want false")
				}
				if resp.Record == nil {
					t.Fatal("NextHandler() record = nil, want record")
				}
				if resp.Record.ID != "rec-1" {
					t.Errorf("NextHandler() record id = %v, want rec-1", resp.Record.ID)
				}
				if resp.Record.DecisionNum != "100" || resp.Record.DecisionDate != "2019-01-02" {
					t.Errorf("NextHandler() decision num/date = %v/%v, want 100/2019-01-02",
						resp.Record.DecisionNum, resp.Record.DecisionDate)
				}
				if resp.Progress.Total != 10 || resp.Progress.Remaining != 4 {
					t.Errorf("NextHandler() progress = %+v, want 10/4", resp.Progress)
				}
			},
		},
		{
			name:   "returns done when batch is finished",
			method: http.MethodGet,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().Next(gomock.Any()).Return(review.Item{
					Done:     true,
					Progress: review.Progress{Total: 10},
				}, nil)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, resp ItemResponse) {
				if !resp.Done {
					t.Error("NextHandler() done = false, want true")
				}
				if resp.Record != nil {
					t.Errorf("NextHandler() record = %+v, want nil", resp.Record)
				}
			},
		},
		{
			name:   "service error",
			method: http.MethodGet,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().Next(gomock.Any()).Return(review.Item{}, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
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

			handler := NewNextHandler(mockService)

			req := httptest.NewRequest(tt.method, "/api/records/next", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("NextHandler() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.checkBody != nil {
				var resp ItemResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("NextHandler() invalid JSON response: %v", err)
				}
				tt.checkBody(t, resp)
			}
		})
	}
}
