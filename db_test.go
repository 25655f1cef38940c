package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *sqliteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "revreport-test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSummary(label string, revenue string) WeeklySummary {
	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	return WeeklySummary{
		WeekLabel:       label,
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 7),
		TotalRevenueDKK: decimal.RequireFromString(revenue),
		TotalRevenueUSD: decimal.RequireFromString("107.25"),
		TotalRevenueEUR: decimal.RequireFromString("99.11"),
		TotalRevenueGBP: decimal.RequireFromString("85.06"),
		OrderCount:      12,
		DKKOrders:       7,
		USDOrders:       3,
		EUROrders:       1,
		GBPOrders:       1,
	}
}

func TestSQLiteStore_EmptyLookups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.SummaryByLabel(ctx, "2023-W52")
	if err != nil {
		t.Fatalf("SummaryByLabel failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a missing label, got %+v", got)
	}

	latest, err := store.LatestSummary(ctx)
	if err != nil {
		t.Fatalf("LatestSummary failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil latest on an empty store, got %+v", latest)
	}
}

func TestSQLiteStore_SummaryRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	summary := testSummary("2023-W52", "739.66")
	if err := store.AppendSummary(ctx, summary); err != nil {
		t.Fatalf("AppendSummary failed: %v", err)
	}

	got, err := store.SummaryByLabel(ctx, "2023-W52")
	if err != nil {
		t.Fatalf("SummaryByLabel failed: %v", err)
	}
	if got == nil {
		t.Fatal("summary not found")
	}

	if got.WeekLabel != summary.WeekLabel {
		t.Fatalf("WeekLabel = %q", got.WeekLabel)
	}
	if !got.StartDate.Equal(summary.StartDate) || !got.EndDate.Equal(summary.EndDate) {
		t.Fatalf("dates = %s / %s", got.StartDate, got.EndDate)
	}
	if !got.TotalRevenueDKK.Equal(summary.TotalRevenueDKK) {
		t.Fatalf("TotalRevenueDKK = %s, want %s", got.TotalRevenueDKK, summary.TotalRevenueDKK)
	}
	if !got.TotalRevenueGBP.Equal(summary.TotalRevenueGBP) {
		t.Fatalf("TotalRevenueGBP = %s, want %s", got.TotalRevenueGBP, summary.TotalRevenueGBP)
	}
	if got.OrderCount != 12 || got.DKKOrders != 7 || got.GBPOrders != 1 {
		t.Fatalf("counts = %+v", got)
	}
	if got.PrevWeekRevenueDKK != nil {
		t.Fatalf("expected nil prev revenue, got %s", got.PrevWeekRevenueDKK)
	}
}

func TestSQLiteStore_PrevRevenueRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	prev := decimal.RequireFromString("812.50")
	summary := testSummary("2024-W01", "700.00")
	summary.PrevWeekRevenueDKK = &prev

	if err := store.AppendSummary(ctx, summary); err != nil {
		t.Fatalf("AppendSummary failed: %v", err)
	}

	got, err := store.SummaryByLabel(ctx, "2024-W01")
	if err != nil {
		t.Fatalf("SummaryByLabel failed: %v", err)
	}
	if got.PrevWeekRevenueDKK == nil || !got.PrevWeekRevenueDKK.Equal(prev) {
		t.Fatalf("PrevWeekRevenueDKK = %v, want %s", got.PrevWeekRevenueDKK, prev)
	}
}

func TestSQLiteStore_LatestFollowsAppendOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Deliberately appended out of chronological order: latest means last
	// appended, not newest label.
	if err := store.AppendSummary(ctx, testSummary("2024-W02", "900.00")); err != nil {
		t.Fatalf("AppendSummary failed: %v", err)
	}
	if err := store.AppendSummary(ctx, testSummary("2024-W01", "700.00")); err != nil {
		t.Fatalf("AppendSummary failed: %v", err)
	}

	latest, err := store.LatestSummary(ctx)
	if err != nil {
		t.Fatalf("LatestSummary failed: %v", err)
	}
	if latest == nil || latest.WeekLabel != "2024-W01" {
		t.Fatalf("latest = %+v, want the last appended row (2024-W01)", latest)
	}
}

func TestSQLiteStore_AppendOrderRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	orders := []Order{
		{ID: "o1", CreatedAt: time.Date(2023, 12, 26, 10, 0, 0, 0, time.UTC), CurrencyCode: "dkk", Total: intp(5000)},
		{ID: "o2", CreatedAt: time.Date(2023, 12, 27, 11, 0, 0, 0, time.UTC), CurrencyCode: "", Total: nil},
	}
	if err := store.AppendOrderRows(ctx, orders, "2023-W52"); err != nil {
		t.Fatalf("AppendOrderRows failed: %v", err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM order_details WHERE week_label = ?`, "2023-W52").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("order_details rows = %d, want 2", count)
	}

	var currency, totalMajor string
	if err := store.db.QueryRow(`SELECT currency, total_major FROM order_details WHERE order_id = ?`, "o2").Scan(&currency, &totalMajor); err != nil {
		t.Fatalf("row query failed: %v", err)
	}
	if currency != "UNKNOWN" || totalMajor != "0" {
		t.Fatalf("normalized row = %s/%s, want UNKNOWN/0", currency, totalMajor)
	}

	// Empty input is a no-op, mirroring the sheet backend.
	if err := store.AppendOrderRows(ctx, nil, "2023-W52"); err != nil {
		t.Fatalf("AppendOrderRows(nil) failed: %v", err)
	}
}

func TestSQLiteStore_DuplicateLabelRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AppendSummary(ctx, testSummary("2024-W01", "700.00")); err != nil {
		t.Fatalf("AppendSummary failed: %v", err)
	}
	if err := store.AppendSummary(ctx, testSummary("2024-W01", "999.00")); err == nil {
		t.Fatal("expected a unique-constraint error for a duplicate label")
	}
}
