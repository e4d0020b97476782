package core_test

import (
	"strings"
	"testing"

	"erp-sync/internal/core"
)

func inventory() []core.InventoryItem {
	return []core.InventoryItem{
		{ID: "p1", ItemName: "Cement Bag", Stock: d("40"), MinimumStockLevel: d("10")},
		{ID: "p2", ItemName: "Steel Rod", Stock: d("5"), MinimumStockLevel: d("8")},
		{ID: "p3", ItemName: "Paint", Stock: d("12")},
	}
}

func TestAdjustStock_SaleThenPurchaseRoundTrip(t *testing.T) {
	inv := inventory()
	lines := []core.LineItem{{ProductID: "p1", ProductName: "Cement Bag", Quantity: d("7")}}

	afterSale, res := core.AdjustStock(inv, lines, core.Decrease)
	if res.Applied != 1 {
		t.Fatalf("sale applied %d lines", res.Applied)
	}
	if !afterSale[0].Stock.Equal(d("33")) {
		t.Fatalf("stock after sale = %s, want 33", afterSale[0].Stock)
	}
	if !inv[0].Stock.Equal(d("40")) {
		t.Fatal("AdjustStock modified its input")
	}

	afterPurchase, _ := core.AdjustStock(afterSale, lines, core.Increase)
	if !afterPurchase[0].Stock.Equal(inv[0].Stock) {
		t.Errorf("stock after round trip = %s, want %s", afterPurchase[0].Stock, inv[0].Stock)
	}
}

func TestMatchInventory(t *testing.T) {
	inv := inventory()
	tests := []struct {
		name string
		line core.LineItem
		want int
	}{
		{"by id", core.LineItem{ProductID: "p2", ProductName: "wrong"}, 1},
		{"by exact name", core.LineItem{ProductName: "Paint"}, 2},
		{"by loose name", core.LineItem{ProductName: "  steel rod "}, 1},
		{"unknown id falls back to name", core.LineItem{ProductID: "zz", ProductName: "Paint"}, 2},
		{"no match", core.LineItem{ProductName: "Gravel"}, -1},
		{"empty line", core.LineItem{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.MatchInventory(inv, tt.line); got != tt.want {
				t.Errorf("MatchInventory = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdjustStock_UnmatchedLinesUntouched(t *testing.T) {
	inv := inventory()
	out, res := core.AdjustStock(inv, []core.LineItem{
		{ProductName: "Gravel", Quantity: d("3")},
		{ProductName: "Paint", Quantity: d("2")},
	}, core.Decrease)
	if res.Applied != 1 || len(res.Unmatched) != 1 || res.Unmatched[0] != "Gravel" {
		t.Fatalf("result = %+v", res)
	}
	if !out[2].Stock.Equal(d("10")) || !out[0].Stock.Equal(d("40")) {
		t.Errorf("stocks = %s, %s", out[0].Stock, out[2].Stock)
	}
}

func TestApplyGRN_UpdatesStockAndLinkedOrder(t *testing.T) {
	inv := inventory()
	po := &core.PurchaseOrder{
		ID:       "po-1",
		PONumber: "PO-001",
		Items: []core.LineItem{
			{ProductID: "p1", ProductName: "Cement Bag", Quantity: d("20")},
			{ProductID: "p3", ProductName: "Paint", Quantity: d("5"), Received: d("1")},
			{ProductID: "p2", ProductName: "Steel Rod", Quantity: d("9")},
		},
	}
	grn := core.GRN{
		LinkedPOID: "po-1",
		Items: []core.LineItem{
			{SKU: "Cement Bag", Quantity: d("15")},
			{SKU: "p3", Quantity: d("4")},
		},
	}

	out, updated, res := core.ApplyGRN(inv, po, grn)
	if res.Applied != 2 {
		t.Fatalf("applied = %d, unmatched = %v", res.Applied, res.Unmatched)
	}
	if !out[0].Stock.Equal(d("55")) || !out[2].Stock.Equal(d("16")) {
		t.Errorf("stocks = %s, %s", out[0].Stock, out[2].Stock)
	}
	if !updated.Items[0].Received.Equal(d("15")) || !updated.Items[1].Received.Equal(d("5")) {
		t.Errorf("received = %s, %s", updated.Items[0].Received, updated.Items[1].Received)
	}
	if !updated.Items[2].Received.IsZero() {
		t.Errorf("unmatched PO line changed: %s", updated.Items[2].Received)
	}
	if !po.Items[0].Received.IsZero() {
		t.Error("ApplyGRN modified the original order")
	}
}

func TestApplyPurchaseReturn(t *testing.T) {
	supplier := &core.Party{ID: "s1", Name: "Acme", OpeningAmount: d("1000"), PaymentType: core.Credit}
	po := &core.PurchaseOrder{Items: []core.LineItem{
		{ProductID: "p1", ProductName: "Cement Bag", Quantity: d("20"), Received: d("3")},
	}}

	t.Run("applied", func(t *testing.T) {
		ret := core.PurchaseReturn{Items: []core.LineItem{{ProductID: "p1", ProductName: "Cement Bag", Quantity: d("5"), Rate: d("300")}}}
		ret.Recalculate()

		eff := core.ApplyPurchaseReturn(inventory(), po, supplier, ret)
		if !eff.Applied {
			t.Fatalf("not applied: %s", eff.Message)
		}
		if !eff.Inventory[0].Stock.Equal(d("35")) {
			t.Errorf("stock = %s, want 35", eff.Inventory[0].Stock)
		}
		if !eff.PurchaseOrder.Items[0].Received.IsZero() {
			t.Errorf("received = %s, want floor at 0", eff.PurchaseOrder.Items[0].Received)
		}
		if eff.Supplier.PaymentType != core.Debit || !eff.Supplier.OpeningAmount.Equal(d("500")) {
			t.Errorf("supplier after credit = %s %s", eff.Supplier.OpeningAmount, eff.Supplier.PaymentType)
		}
	})

	t.Run("insufficient stock is not applied", func(t *testing.T) {
		ret := core.PurchaseReturn{Items: []core.LineItem{{ProductID: "p2", Quantity: d("6")}}}
		eff := core.ApplyPurchaseReturn(inventory(), nil, nil, ret)
		if eff.Applied {
			t.Fatal("expected return to be refused")
		}
		if !strings.Contains(eff.Message, "Steel Rod") {
			t.Errorf("message = %q", eff.Message)
		}
	})

	t.Run("lines of one item are summed", func(t *testing.T) {
		tests := []struct {
			name    string
			lines   []core.LineItem
			applied bool
		}{
			{"overdraw by id", []core.LineItem{{ProductID: "p2", Quantity: d("3")}, {ProductID: "p2", Quantity: d("3")}}, false},
			{"overdraw by id and name", []core.LineItem{{ProductID: "p2", Quantity: d("4")}, {ProductName: "steel rod", Quantity: d("2")}}, false},
			{"exactly the stock", []core.LineItem{{ProductID: "p2", Quantity: d("2")}, {ProductID: "p2", Quantity: d("3")}}, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				eff := core.ApplyPurchaseReturn(inventory(), nil, nil, core.PurchaseReturn{Items: tt.lines})
				if eff.Applied != tt.applied {
					t.Fatalf("applied = %v, want %v (%s)", eff.Applied, tt.applied, eff.Message)
				}
				if !tt.applied {
					if eff.Inventory != nil || !strings.Contains(eff.Message, "only 5 in stock") {
						t.Errorf("effect = %+v", eff)
					}
					return
				}
				if !eff.Inventory[1].Stock.IsZero() {
					t.Errorf("stock = %s, want 0", eff.Inventory[1].Stock)
				}
			})
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		ret := core.PurchaseReturn{Items: []core.LineItem{{ProductName: "Gravel", Quantity: d("1")}}}
		if eff := core.ApplyPurchaseReturn(inventory(), nil, nil, ret); eff.Applied {
			t.Fatal("expected return to be refused")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if eff := core.ApplyPurchaseReturn(inventory(), nil, nil, core.PurchaseReturn{}); eff.Applied || eff.Message == "" {
			t.Fatalf("effect = %+v", eff)
		}
	})
}

func TestLowStock(t *testing.T) {
	low := core.LowStock(inventory())
	if len(low) != 1 || low[0].ID != "p2" {
		t.Fatalf("LowStock = %+v", low)
	}
}
