package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

func sampleRules() []*domain.AccountingRule {
	return []*domain.AccountingRule{
		{
			ID: "rule-1", TenantID: "tenant-1", BusinessID: "biz-1",
			EventCode: domain.EventVoucherSold, Name: "voucher sale cash debit",
			Priority:  10,
			Condition: domain.Condition{{Field: "payment_type", Equals: "cash"}},
			AccountID: "acc-kas", Direction: domain.DirectionDebit,
			AmountSource: "total_amount", Active: true,
		},
		{
			ID: "rule-2", TenantID: "tenant-1", BusinessID: "biz-1",
			EventCode: domain.EventVoucherSold, Name: "voucher sale cash credit",
			Priority:  20,
			Condition: domain.Condition{{Field: "payment_type", Equals: "cash"}},
			AccountID: "acc-penjualan", Direction: domain.DirectionCredit,
			AmountSource: "total_amount", Active: true,
		},
	}
}

func TestRuleCache_SetGetRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewRuleCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "tenant-1", "biz-1", domain.EventVoucherSold, sampleRules(), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	rules, ok, err := cache.Get(ctx, "tenant-1", "biz-1", domain.EventVoucherSold)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].ID != "rule-1" || rules[1].ID != "rule-2" {
		t.Error("rule order must survive the round trip")
	}
	if len(rules[0].Condition) != 1 || rules[0].Condition[0].Field != "payment_type" {
		t.Error("condition must survive the round trip")
	}

	// Condition values decode as json.Number or string, never float64, so
	// matching semantics stay identical after a cache round trip.
	if _, isString := rules[0].Condition[0].Equals.(string); !isString {
		if _, isNumber := rules[0].Condition[0].Equals.(json.Number); !isNumber {
			t.Errorf("unexpected condition value type %T", rules[0].Condition[0].Equals)
		}
	}
}

func TestRuleCache_Miss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewRuleCache(client)

	_, ok, err := cache.Get(context.Background(), "tenant-1", "biz-1", domain.EventVoucherSold)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss")
	}
}

func TestRuleCache_CachesEmptyRuleSet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewRuleCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "tenant-1", "biz-1", "EVT_UNCONFIGURED", nil, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	rules, ok, err := cache.Get(ctx, "tenant-1", "biz-1", "EVT_UNCONFIGURED")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("an empty rule set is still a hit")
	}
	if len(rules) != 0 {
		t.Fatalf("expected no rules, got %d", len(rules))
	}
}

func TestRuleCache_InvalidateDropsBusiness(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewRuleCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "tenant-1", "biz-1", domain.EventVoucherSold, sampleRules(), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := cache.Set(ctx, "tenant-1", "biz-1", domain.EventPurchaseRecorded, nil, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := cache.Set(ctx, "tenant-1", "biz-2", domain.EventVoucherSold, sampleRules(), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Invalidate(ctx, "tenant-1", "biz-1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if _, ok, _ := cache.Get(ctx, "tenant-1", "biz-1", domain.EventVoucherSold); ok {
		t.Error("invalidated event key should miss")
	}
	if _, ok, _ := cache.Get(ctx, "tenant-1", "biz-1", domain.EventPurchaseRecorded); ok {
		t.Error("every event key of the business should miss")
	}
	if _, ok, _ := cache.Get(ctx, "tenant-1", "biz-2", domain.EventVoucherSold); !ok {
		t.Error("other businesses must keep their cache")
	}
}

func TestRuleCache_Expiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewRuleCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "tenant-1", "biz-1", domain.EventVoucherSold, sampleRules(), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := cache.Get(ctx, "tenant-1", "biz-1", domain.EventVoucherSold); ok {
		t.Error("expired entry should miss")
	}
}
