package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AmountBasis selects which line value the display field Amount mirrors.
type AmountBasis int

const (
	AmountNet AmountBasis = iota
	AmountGross
)

// Edit names the line input that was just changed. Percent and
// DiscountAmount are kept in sync in the direction of the edit.
type Edit int

const (
	EditQuantity Edit = iota
	EditRate
	EditLength
	EditPercent
	EditDiscountAmount
)

func (e Edit) String() string {
	switch e {
	case EditQuantity:
		return "quantity"
	case EditRate:
		return "rate"
	case EditLength:
		return "length"
	case EditPercent:
		return "percent"
	case EditDiscountAmount:
		return "discountAmount"
	}
	return fmt.Sprintf("edit(%d)", int(e))
}

// Gross returns quantity × rate, multiplied by length when length > 0.
func (l LineItem) Gross() decimal.Decimal {
	gross := l.Quantity.Mul(l.Rate)
	if l.Length.IsPositive() {
		gross = gross.Mul(l.Length)
	}
	return gross
}

// Recalculate recomputes the derived fields of l after edit. Negative
// discounts and percents count as zero.
func (l LineItem) Recalculate(edit Edit, basis AmountBasis) LineItem {
	l.GrossAmount = l.Gross()
	l.Percent = decimal.Max(decimal.Zero, l.Percent)
	l.DiscountAmount = decimal.Max(decimal.Zero, l.DiscountAmount)

	switch {
	case edit == EditDiscountAmount:
		l.Percent = percentOf(l.DiscountAmount, l.GrossAmount)
	case edit == EditPercent || !l.Percent.IsZero():
		l.DiscountAmount = l.GrossAmount.Mul(l.Percent).Div(hundred)
	case !l.DiscountAmount.IsZero():
		l.Percent = percentOf(l.DiscountAmount, l.GrossAmount)
	}

	l.NetAmount = decimal.Max(decimal.Zero, l.GrossAmount.Sub(l.DiscountAmount))
	if basis == AmountGross {
		l.Amount = l.GrossAmount
	} else {
		l.Amount = l.NetAmount
	}
	return l
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Apply sets the edited input on l and recalculates it.
func (l LineItem) Apply(edit Edit, value decimal.Decimal, basis AmountBasis) LineItem {
	switch edit {
	case EditQuantity:
		l.Quantity = value
	case EditRate:
		l.Rate = value
	case EditLength:
		l.Length = value
	case EditPercent:
		l.Percent = value
	case EditDiscountAmount:
		l.DiscountAmount = value
	}
	return l.Recalculate(edit, basis)
}

// SumTotals re-sums the document totals from lines. Totals are never
// patched incrementally.
func SumTotals(lines []LineItem) Totals {
	var t Totals
	for _, l := range lines {
		t.SubTotal = t.SubTotal.Add(l.Amount)
		t.TotalGrossAmount = t.TotalGrossAmount.Add(l.GrossAmount)
		t.TotalDiscount = t.TotalDiscount.Add(l.DiscountAmount)
		t.TotalNetAmount = t.TotalNetAmount.Add(l.NetAmount)
	}
	return t
}

// Recompute recalculates every line and returns fresh totals. lines is not
// modified.
func Recompute(lines []LineItem, basis AmountBasis) ([]LineItem, Totals) {
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		out[i] = l.Recalculate(EditQuantity, basis)
	}
	return out, SumTotals(out)
}

// EditLine applies one edit to lines[index] and returns the new lines and totals.
func EditLine(lines []LineItem, index int, edit Edit, value decimal.Decimal, basis AmountBasis) ([]LineItem, Totals, error) {
	if index < 0 || index >= len(lines) {
		return nil, Totals{}, fmt.Errorf("edit %s: line %d out of range (%d lines)", edit, index, len(lines))
	}
	out := make([]LineItem, len(lines))
	copy(out, lines)
	out[index] = out[index].Apply(edit, value, basis)
	return out, SumTotals(out), nil
}

// Truncated floors the monetary fields of l. Quantities, rate and percent
// keep their precision.
func (l LineItem) Truncated() LineItem {
	l.DiscountAmount = l.DiscountAmount.Floor()
	l.GrossAmount = l.GrossAmount.Floor()
	l.NetAmount = l.NetAmount.Floor()
	l.Amount = l.Amount.Floor()
	return l
}

// TruncateLines floors every line and re-sums totals from the floored values
// so the payload still satisfies the totals invariant.
func TruncateLines(lines []LineItem) ([]LineItem, Totals) {
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		out[i] = l.Truncated()
	}
	return out, SumTotals(out)
}

// Recalculate refreshes lines and totals of the sale.
func (s *Sale) Recalculate() { s.Items, s.Totals = Recompute(s.Items, AmountNet) }

// ForPayload returns a copy with monetary fields floored.
func (s Sale) ForPayload() Sale { s.Items, s.Totals = TruncateLines(s.Items); return s }

func (q *Quotation) Recalculate() { q.Items, q.Totals = Recompute(q.Items, AmountNet) }

func (q Quotation) ForPayload() Quotation { q.Items, q.Totals = TruncateLines(q.Items); return q }

func (p *PurchaseOrder) Recalculate() { p.Items, p.Totals = Recompute(p.Items, AmountNet) }

func (p PurchaseOrder) ForPayload() PurchaseOrder {
	p.Items, p.Totals = TruncateLines(p.Items)
	return p
}

func (p *PurchaseInvoice) Recalculate() { p.Items, p.Totals = Recompute(p.Items, AmountNet) }

func (p PurchaseInvoice) ForPayload() PurchaseInvoice {
	p.Items, p.Totals = TruncateLines(p.Items)
	return p
}

func (g *GRN) Recalculate() { g.Items, g.Totals = Recompute(g.Items, AmountGross) }

func (g GRN) ForPayload() GRN { g.Items, g.Totals = TruncateLines(g.Items); return g }

func (r *PurchaseReturn) Recalculate() { r.Items, r.Totals = Recompute(r.Items, AmountGross) }

func (r PurchaseReturn) ForPayload() PurchaseReturn {
	r.Items, r.Totals = TruncateLines(r.Items)
	return r
}

func (e Expense) ForPayload() Expense { e.Amount = e.Amount.Floor(); return e }

func (v Voucher) ForPayload() Voucher { v.Amount = v.Amount.Floor(); return v }
