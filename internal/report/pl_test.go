package report

import (
	"bytes"
	"testing"

	"erp-sync/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInput() Input {
	sale := func(date, net, discount string) core.Sale {
		return core.Sale{Date: date, Totals: core.Totals{TotalNetAmount: dec(net), TotalDiscount: dec(discount)}}
	}
	return Input{
		Sales: []core.Sale{
			sale("2026-03-01", "1000", "50"),
			sale("2026-03-15T10:00:00Z", "500", "0"),
			sale("2026-04-02", "700", "0"),
			sale("", "999", "0"),
		},
		PurchaseInvoices: []core.PurchaseInvoice{
			{Date: "2026-03-05", Totals: core.Totals{TotalNetAmount: dec("600")}},
		},
		PurchaseReturns: []core.PurchaseReturn{
			{Date: "2026-03-20", Totals: core.Totals{SubTotal: dec("100")}},
		},
		Expenses: []core.Expense{
			{Date: "2026-03-10", Category: "Rent", Amount: dec("300")},
			{Date: "2026-03-11", Category: "", Amount: dec("20")},
			{Date: "2026-03-12", Category: "Rent", Amount: dec("30")},
		},
	}
}

func TestCompute_Period(t *testing.T) {
	r, err := Compute(sampleInput(), Period{From: "2026-03-01", To: "2026-03-31"})
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"revenue", r.Revenue, "1500"},
		{"salesDiscount", r.SalesDiscount, "50"},
		{"purchases", r.Purchases, "600"},
		{"purchaseReturns", r.PurchaseReturns, "100"},
		{"costOfGoods", r.CostOfGoods, "500"},
		{"grossProfit", r.GrossProfit, "1000"},
		{"expenses", r.Expenses, "350"},
		{"netProfit", r.NetProfit, "650"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if r.SaleCount != 2 || r.Undated != 1 {
		t.Errorf("saleCount = %d, undated = %d", r.SaleCount, r.Undated)
	}
	if len(r.ExpensesByCategory) != 2 || r.ExpensesByCategory[0].Category != "Rent" || !r.ExpensesByCategory[0].Amount.Equal(dec("330")) {
		t.Errorf("by category = %+v", r.ExpensesByCategory)
	}
}

func TestCompute_Unbounded(t *testing.T) {
	r, err := Compute(sampleInput(), Period{})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Revenue.Equal(dec("3199")) || r.Undated != 0 {
		t.Errorf("revenue = %s, undated = %d", r.Revenue, r.Undated)
	}
}

func TestCompute_BadPeriod(t *testing.T) {
	for _, p := range []Period{{From: "03/01/2026"}, {From: "2026-04-01", To: "2026-03-01"}} {
		if _, err := Compute(Input{}, p); err == nil {
			t.Errorf("Compute(%+v) accepted a bad period", p)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	r, err := Compute(sampleInput(), Period{From: "2026-03-01", To: "2026-03-31"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, r); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(plSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	last := rows[len(rows)-1]
	if len(last) != 2 || last[0] != "Net profit" || last[1] != "650" {
		t.Errorf("last row = %v", last)
	}
}
