package core_test

import (
	"testing"

	"erp-sync/internal/core"
)

func TestSeries_Next(t *testing.T) {
	tests := []struct {
		name     string
		series   core.Series
		existing []string
		want     string
	}{
		{"po max plus one", core.SeriesPurchaseOrder, []string{"PO-001", "PO-002", "PO-005"}, "PO-006"},
		{"quotation fills gap", core.SeriesQuotation, []string{"Quo-0001", "Quo-0003"}, "Quo-0002"},
		{"quotation appends when dense", core.SeriesQuotation, []string{"Quo-0002", "Quo-0001"}, "Quo-0003"},
		{"quotation reuses first slot", core.SeriesQuotation, []string{"Quo-0002"}, "Quo-0001"},
		{"empty series starts at one", core.SeriesSale, nil, "INV-0001"},
		{"foreign keys ignored", core.SeriesSale, []string{"INV-0007", "PO-900", "INV-12", "TMP-abc", ""}, "INV-0008"},
		{"width overflow keeps counting", core.SeriesPurchaseOrder, []string{"PO-999"}, "PO-1000"},
		{"overflowed keys still parse", core.SeriesPurchaseOrder, []string{"PO-1000", "PO-004"}, "PO-1001"},
		{"return series", core.SeriesPurchaseReturn, []string{"PRET-0003"}, "PRET-0004"},
		{"voucher series", core.SeriesReceiptVoucher, []string{"RV-0001", "PV-0009"}, "RV-0002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.series.Next(tt.existing); got != tt.want {
				t.Errorf("Next(%v) = %q, want %q", tt.existing, got, tt.want)
			}
		})
	}
}

func TestSeries_Deterministic(t *testing.T) {
	keys := []string{"EXP-0004", "EXP-0001"}
	first := core.SeriesExpense.Next(keys)
	for i := 0; i < 5; i++ {
		if got := core.SeriesExpense.Next(keys); got != first {
			t.Fatalf("Next changed between calls: %q then %q", first, got)
		}
	}
}

func TestSeries_Parse(t *testing.T) {
	if n, ok := core.SeriesGRN.Parse("GRN-0042"); !ok || n != 42 {
		t.Errorf("Parse(GRN-0042) = %d, %v", n, ok)
	}
	if _, ok := core.SeriesGRN.Parse("GRN-42"); ok {
		t.Error("Parse accepted a key narrower than the series width")
	}
	if _, ok := core.SeriesGRN.Parse("PO-0042"); ok {
		t.Error("Parse accepted a key from another series")
	}
}
