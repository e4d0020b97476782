package core

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// NumberPolicy selects how the next number in a series is chosen.
type NumberPolicy int

const (
	// MaxPlusOne takes the highest existing number plus one.
	MaxPlusOne NumberPolicy = iota
	// FillGap takes the smallest positive number not in use, so numbers
	// freed by deletions are reused.
	FillGap
)

// Series describes a business-key numbering series such as PO-003.
// Numbers are generated from the in-memory collection only; nothing is
// reserved on the backend, so two clients may race for the same number.
type Series struct {
	Name   string
	Prefix string
	Width  int
	Policy NumberPolicy
}

var (
	SeriesSale            = Series{Name: "sale", Prefix: "INV", Width: 4, Policy: MaxPlusOne}
	SeriesQuotation       = Series{Name: "quotation", Prefix: "Quo", Width: 4, Policy: FillGap}
	SeriesPurchaseOrder   = Series{Name: "purchase-order", Prefix: "PO", Width: 3, Policy: MaxPlusOne}
	SeriesPurchaseInvoice = Series{Name: "purchase-invoice", Prefix: "PINV", Width: 4, Policy: MaxPlusOne}
	SeriesGRN             = Series{Name: "grn", Prefix: "GRN", Width: 4, Policy: MaxPlusOne}
	SeriesPurchaseReturn  = Series{Name: "purchase-return", Prefix: "PRET", Width: 4, Policy: MaxPlusOne}
	SeriesExpense         = Series{Name: "expense", Prefix: "EXP", Width: 4, Policy: MaxPlusOne}
	SeriesReceiptVoucher  = Series{Name: "receipt-voucher", Prefix: "RV", Width: 4, Policy: MaxPlusOne}
	SeriesPaymentVoucher  = Series{Name: "payment-voucher", Prefix: "PV", Width: 4, Policy: MaxPlusOne}
)

// AllSeries lists every known series, keyed by Name.
var AllSeries = map[string]Series{
	SeriesSale.Name:            SeriesSale,
	SeriesQuotation.Name:       SeriesQuotation,
	SeriesPurchaseOrder.Name:   SeriesPurchaseOrder,
	SeriesPurchaseInvoice.Name: SeriesPurchaseInvoice,
	SeriesGRN.Name:             SeriesGRN,
	SeriesPurchaseReturn.Name:  SeriesPurchaseReturn,
	SeriesExpense.Name:         SeriesExpense,
	SeriesReceiptVoucher.Name:  SeriesReceiptVoucher,
	SeriesPaymentVoucher.Name:  SeriesPaymentVoucher,
}

func (s Series) pattern() *regexp.Regexp {
	// At least Width digits, so the series keeps working past its padding.
	return regexp.MustCompile(fmt.Sprintf(`^%s-(\d{%d,})$`, regexp.QuoteMeta(s.Prefix), s.Width))
}

// Format renders n zero-padded to the series width.
func (s Series) Format(n int) string {
	return fmt.Sprintf("%s-%0*d", s.Prefix, s.Width, n)
}

// Parse extracts the numeric suffix of key. ok is false for keys outside
// the series.
func (s Series) Parse(key string) (n int, ok bool) {
	m := s.pattern().FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next returns the next business key given the keys already in use.
// Keys that do not belong to the series are ignored.
func (s Series) Next(existing []string) string {
	re := s.pattern()
	var used []int
	for _, key := range existing {
		m := re.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			used = append(used, n)
		}
	}

	if s.Policy == FillGap {
		sort.Ints(used)
		next := 1
		for _, n := range used {
			if n == next {
				next++
			} else if n > next {
				break
			}
		}
		return s.Format(next)
	}

	highest := 0
	for _, n := range used {
		if n > highest {
			highest = n
		}
	}
	return s.Format(highest + 1)
}
