package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

func TestParseJournalDate(t *testing.T) {
	got, err := ParseJournalDate("2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ParseJournalDate("15/03/2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
	if _, err := ParseJournalDate("2026-03-15T10:00:00Z"); err == nil {
		t.Fatal("expected error for timestamp input")
	}
}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	parent := "acc-parent"
	req := &CreateAccountRequest{
		Code:     "1011",
		Name:     "Kas Kecil",
		Type:     "asset",
		ParentID: &parent,
	}

	got := req.ToUseCaseInput("tenant-1", "biz-1")

	if got.TenantID != "tenant-1" || got.BusinessID != "biz-1" {
		t.Fatalf("expected tenancy fields, got %+v", got)
	}
	if got.Code != "1011" || got.Type != domain.AccountTypeAsset {
		t.Fatalf("expected account fields to carry over, got %+v", got)
	}
	if got.ParentID == nil || *got.ParentID != "acc-parent" {
		t.Fatalf("expected parent pointer, got %v", got.ParentID)
	}
}

func TestCreatePeriodRequest_ToUseCaseInput(t *testing.T) {
	req := &CreatePeriodRequest{
		Name:      "Maret 2026",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	}

	got, err := req.ToUseCaseInput("tenant-1", "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.StartDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed start, got %v", got.StartDate)
	}
	if !got.EndDate.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed end, got %v", got.EndDate)
	}

	req.EndDate = "soon"
	if _, err := req.ToUseCaseInput("tenant-1", "biz-1"); err == nil {
		t.Fatal("expected error for unparseable end date")
	}
}

func TestCreateRuleRequest_ActiveDefaultsTrue(t *testing.T) {
	req := &CreateRuleRequest{
		EventCode:    domain.EventVoucherSold,
		Name:         "Tunai masuk kas",
		AccountID:    "acc-kas",
		Direction:    "DEBIT",
		AmountSource: "total_amount",
	}

	if got := req.ToUseCaseInput("tenant-1", "biz-1"); !got.Active {
		t.Fatal("expected missing active flag to default to true")
	}

	inactive := false
	req.Active = &inactive
	if got := req.ToUseCaseInput("tenant-1", "biz-1"); got.Active {
		t.Fatal("expected explicit false to be honored")
	}
}

func TestPostEventRequest_ToUseCaseInput(t *testing.T) {
	req := &PostEventRequest{
		EventCode:   domain.EventVoucherSold,
		JournalDate: "2026-03-15",
		SourceType:  "voucher_sale",
		SourceID:    "vs-77",
		Payload: map[string]any{
			"total_amount": json.Number("150000"),
		},
	}

	got, err := req.ToUseCaseInput("tenant-1", "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source.Type != domain.SourceVoucherSale || got.Source.ID != "vs-77" {
		t.Fatalf("expected parsed source, got %+v", got.Source)
	}
	if got.Payload["total_amount"] != json.Number("150000") {
		t.Fatalf("expected payload to pass through untouched, got %+v", got.Payload)
	}

	req.SourceType = "mystery"
	if _, err := req.ToUseCaseInput("tenant-1", "biz-1"); err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestManualJournalRequest_ToUseCaseInput(t *testing.T) {
	req := &ManualJournalRequest{
		EventCode:   domain.EventEquityInjected,
		JournalDate: "2026-03-15",
		ReferenceID: "doc-12",
	}

	got, err := req.ToUseCaseInput("tenant-1", "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source.Type != domain.SourceManual {
		t.Fatalf("expected manual source type, got %s", got.Source.Type)
	}
	if got.Source.ID != "doc-12" {
		t.Fatalf("expected reference as source ID, got %s", got.Source.ID)
	}
}

func TestReverseEntryRequest_ToUseCaseInput(t *testing.T) {
	req := &ReverseEntryRequest{}

	got, err := req.ToUseCaseInput("tenant-1", "biz-1", "je-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EntryID != "je-1" || got.JournalDate != nil {
		t.Fatalf("expected nil date when omitted, got %+v", got)
	}

	date := "2026-04-01"
	req.JournalDate = &date
	got, err = req.ToUseCaseInput("tenant-1", "biz-1", "je-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.JournalDate == nil || !got.JournalDate.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed override date, got %v", got.JournalDate)
	}

	bad := "April 1st"
	req.JournalDate = &bad
	if _, err := req.ToUseCaseInput("tenant-1", "biz-1", "je-1"); err == nil {
		t.Fatal("expected error for unparseable override date")
	}
}
