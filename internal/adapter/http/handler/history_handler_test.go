package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khatahq/khata/internal/adapter/http/dto"
	"github.com/khatahq/khata/internal/usecase"
)

type historyServiceStub struct {
	historyFn  func(ctx context.Context, input usecase.GetHistoryInput) (*usecase.BalanceHistoryPage, error)
	timelineFn func(ctx context.Context, clientID string, limit int) (*usecase.BalanceTimeline, error)
	summaryFn  func(ctx context.Context, input usecase.SummaryInput) (*usecase.BalanceChangeSummary, error)
	cleanupFn  func(ctx context.Context, keepLastN int) (*usecase.CleanupResult, error)
}

func (s *historyServiceStub) GetClientBalanceHistory(ctx context.Context, input usecase.GetHistoryInput) (*usecase.BalanceHistoryPage, error) {
	return s.historyFn(ctx, input)
}

func (s *historyServiceStub) GetClientBalanceTimeline(ctx context.Context, clientID string, limit int) (*usecase.BalanceTimeline, error) {
	return s.timelineFn(ctx, clientID, limit)
}

func (s *historyServiceStub) GetBalanceChangeSummary(ctx context.Context, input usecase.SummaryInput) (*usecase.BalanceChangeSummary, error) {
	return s.summaryFn(ctx, input)
}

func (s *historyServiceStub) CleanupHistory(ctx context.Context, keepLastN int) (*usecase.CleanupResult, error) {
	return s.cleanupFn(ctx, keepLastN)
}

func TestHistoryHandler_Cleanup_EmptyBodyUsesDefault(t *testing.T) {
	var captured int
	handler := NewHistoryHandler(&historyServiceStub{
		cleanupFn: func(ctx context.Context, keepLastN int) (*usecase.CleanupResult, error) {
			captured = keepLastN
			return &usecase.CleanupResult{ClientsProcessed: 3, EntriesDeleted: 12}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/history/cleanup", nil)
	rr := httptest.NewRecorder()

	handler.Cleanup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured != 0 {
		t.Fatalf("expected zero keepLastN to reach the service, got %d", captured)
	}

	var resp dto.CleanupHistoryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.EntriesDeleted != 12 {
		t.Fatalf("expected 12 deleted entries, got %d", resp.EntriesDeleted)
	}
}

func TestHistoryHandler_Cleanup_PassesKeepLastN(t *testing.T) {
	var captured int
	handler := NewHistoryHandler(&historyServiceStub{
		cleanupFn: func(ctx context.Context, keepLastN int) (*usecase.CleanupResult, error) {
			captured = keepLastN
			return &usecase.CleanupResult{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/history/cleanup",
		bytes.NewBufferString(`{"keep_last_n": 7}`))
	rr := httptest.NewRecorder()

	handler.Cleanup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured != 7 {
		t.Fatalf("expected keepLastN 7, got %d", captured)
	}
}

func TestHistoryHandler_Cleanup_RejectsMalformedBody(t *testing.T) {
	handler := NewHistoryHandler(&historyServiceStub{
		cleanupFn: func(ctx context.Context, keepLastN int) (*usecase.CleanupResult, error) {
			t.Fatal("service should not be called for malformed input")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/history/cleanup",
		bytes.NewBufferString(`{not-json`))
	rr := httptest.NewRecorder()

	handler.Cleanup(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
