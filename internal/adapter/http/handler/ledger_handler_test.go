package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/dto"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

type ledgerServiceStub struct {
	checkFn func(ctx context.Context, businessID string) (bool, error)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context, businessID string) (bool, error) {
	return s.checkFn(ctx, businessID)
}

func TestLedgerHandler_Consistency_OK(t *testing.T) {
	var gotBusiness string
	handler := NewLedgerHandler(&ledgerServiceStub{
		checkFn: func(ctx context.Context, businessID string) (bool, error) {
			gotBusiness = businessID
			return true, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency?business=biz-1", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotBusiness != "biz-1" {
		t.Fatalf("expected business filter from query, got %q", gotBusiness)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent {
		t.Fatal("expected consistent ledger")
	}
}

func TestLedgerHandler_Consistency_Inconsistent(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		checkFn: func(ctx context.Context, businessID string) (bool, error) {
			return false, usecase.ErrInconsistentLedger
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent {
		t.Fatal("expected inconsistent ledger in body")
	}
}

func TestLedgerHandler_Consistency_Error(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		checkFn: func(ctx context.Context, businessID string) (bool, error) {
			return false, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
