package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the sign of a stock movement.
type Direction int

const (
	Decrease Direction = -1
	Increase Direction = 1
)

func (d Direction) String() string {
	if d == Decrease {
		return "decrease"
	}
	return "increase"
}

// StockResult reports what an adjustment touched. Lines that matched no
// inventory item are listed by display name and otherwise ignored.
type StockResult struct {
	Applied   int
	Unmatched []string
}

// MatchInventory returns the index of the inventory item line refers to:
// by product id, then by exact name, then by name ignoring case and
// surrounding space. -1 when nothing matches.
func MatchInventory(inv []InventoryItem, line LineItem) int {
	if line.ProductID != "" {
		for i, it := range inv {
			if it.ID == line.ProductID {
				return i
			}
		}
	}
	name := lineName(line)
	if name == "" {
		return -1
	}
	for i, it := range inv {
		if it.ItemName == name {
			return i
		}
	}
	for i, it := range inv {
		if sameName(it.ItemName, name) {
			return i
		}
	}
	return -1
}

// matchBySKU matches a received line by sku against item name or id, the
// keys GRN screens put in the sku column. Lines without a sku fall back to
// MatchInventory.
func matchBySKU(inv []InventoryItem, line LineItem) int {
	if line.SKU == "" {
		return MatchInventory(inv, line)
	}
	for i, it := range inv {
		if sameName(it.ItemName, line.SKU) || it.ID == line.SKU {
			return i
		}
	}
	return -1
}

func lineName(l LineItem) string {
	if l.ProductName != "" {
		return l.ProductName
	}
	return l.SKU
}

func cloneInventory(inv []InventoryItem) []InventoryItem {
	out := make([]InventoryItem, len(inv))
	copy(out, inv)
	return out
}

func adjust(inv []InventoryItem, lines []LineItem, dir Direction, match func([]InventoryItem, LineItem) int) ([]InventoryItem, StockResult) {
	out := cloneInventory(inv)
	var res StockResult
	for _, l := range lines {
		if !l.Quantity.IsPositive() {
			continue
		}
		i := match(out, l)
		if i < 0 {
			res.Unmatched = append(res.Unmatched, lineName(l))
			continue
		}
		out[i].Stock = out[i].Stock.Add(l.Quantity.Mul(decimal.NewFromInt(int64(dir))))
		res.Applied++
	}
	return out, res
}

// AdjustStock moves stock for every line in the given direction and returns
// the new inventory. inv is not modified. Sales may drive stock negative;
// the backend is the authority on availability.
func AdjustStock(inv []InventoryItem, lines []LineItem, dir Direction) ([]InventoryItem, StockResult) {
	return adjust(inv, lines, dir, MatchInventory)
}

// ApplyGRN books received quantities into stock and, when po is the linked
// order, into its lines' Received field. The returned order is a copy; it is
// nil when po is nil. PO lines that match no GRN line are left unchanged.
func ApplyGRN(inv []InventoryItem, po *PurchaseOrder, grn GRN) ([]InventoryItem, *PurchaseOrder, StockResult) {
	out, res := adjust(inv, grn.Items, Increase, matchBySKU)
	if po == nil {
		return out, nil, res
	}
	updated := *po
	updated.Items = make([]LineItem, len(po.Items))
	copy(updated.Items, po.Items)
	for _, l := range grn.Items {
		if !l.Quantity.IsPositive() {
			continue
		}
		if i := matchPOLine(updated.Items, l); i >= 0 {
			updated.Items[i].Received = updated.Items[i].Received.Add(l.Quantity)
		}
	}
	return out, &updated, res
}

// matchPOLine finds the order line a received line belongs to, by sku
// against product name or id.
func matchPOLine(lines []LineItem, l LineItem) int {
	key := l.SKU
	if key == "" {
		key = lineName(l)
	}
	if key == "" && l.ProductID == "" {
		return -1
	}
	for i, pl := range lines {
		if (l.ProductID != "" && pl.ProductID == l.ProductID) || (key != "" && pl.ProductID == key) || sameName(pl.ProductName, key) {
			return i
		}
	}
	return -1
}

// ReturnEffect is the outcome of booking a purchase return locally. A
// return that is not applied is a normal outcome; Message says why.
type ReturnEffect struct {
	Applied       bool
	Message       string
	Inventory     []InventoryItem
	PurchaseOrder *PurchaseOrder
	Supplier      *Party
}

// ApplyPurchaseReturn takes returned goods out of stock, reduces Received on
// the linked order's lines (never below zero) and, when supplier is given,
// credits the return total against the supplier balance. Nothing is applied
// when no line matches or when a line would take stock below zero.
func ApplyPurchaseReturn(inv []InventoryItem, po *PurchaseOrder, supplier *Party, ret PurchaseReturn) ReturnEffect {
	if len(ret.Items) == 0 {
		return ReturnEffect{Message: "return has no items"}
	}
	// Lines of the same item draw on one stock figure.
	returned := map[int]decimal.Decimal{}
	var order []int
	for _, l := range ret.Items {
		if !l.Quantity.IsPositive() {
			continue
		}
		i := MatchInventory(inv, l)
		if i < 0 {
			continue
		}
		if _, seen := returned[i]; !seen {
			order = append(order, i)
		}
		returned[i] = returned[i].Add(l.Quantity)
	}
	for _, i := range order {
		if inv[i].Stock.LessThan(returned[i]) {
			return ReturnEffect{Message: fmt.Sprintf("cannot return %s of %q: only %s in stock",
				returned[i], inv[i].ItemName, inv[i].Stock)}
		}
	}

	out, res := AdjustStock(inv, ret.Items, Decrease)
	if res.Applied == 0 {
		return ReturnEffect{Message: "no returned item matches inventory"}
	}
	eff := ReturnEffect{Applied: true, Inventory: out}

	if po != nil {
		updated := *po
		updated.Items = make([]LineItem, len(po.Items))
		copy(updated.Items, po.Items)
		for _, l := range ret.Items {
			if i := matchPOLine(updated.Items, l); i >= 0 {
				updated.Items[i].Received = decimal.Max(decimal.Zero, updated.Items[i].Received.Sub(l.Quantity))
			}
		}
		eff.PurchaseOrder = &updated
	}

	if supplier != nil {
		credited := supplier.WithBalance(supplier.Balance().Sub(ret.SubTotal))
		eff.Supplier = &credited
	}

	eff.Message = fmt.Sprintf("returned %d item(s)", res.Applied)
	if len(res.Unmatched) > 0 {
		eff.Message += "; not in inventory: " + strings.Join(res.Unmatched, ", ")
	}
	return eff
}

// LowStock lists the items at or below their minimum level.
func LowStock(inv []InventoryItem) []InventoryItem {
	var out []InventoryItem
	for _, it := range inv {
		if it.IsLowStock() {
			out = append(out, it)
		}
	}
	return out
}
