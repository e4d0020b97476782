// Package report derives the profit-and-loss statement from cached
// documents.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"erp-sync/internal/core"

	"github.com/shopspring/decimal"
)

// Period bounds a report by document date, both ends inclusive. Empty
// bounds are open.
type Period struct {
	From string
	To   string
}

func (p Period) parse() (from, to time.Time, err error) {
	if p.From != "" {
		if from, err = time.Parse(time.DateOnly, p.From); err != nil {
			return from, to, fmt.Errorf("invalid from date %q: %w", p.From, err)
		}
	}
	if p.To != "" {
		if to, err = time.Parse(time.DateOnly, p.To); err != nil {
			return from, to, fmt.Errorf("invalid to date %q: %w", p.To, err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("period ends before it starts")
	}
	return from, to, nil
}

// Input is the set of documents a report is computed from.
type Input struct {
	Sales            []core.Sale
	PurchaseInvoices []core.PurchaseInvoice
	PurchaseReturns  []core.PurchaseReturn
	Expenses         []core.Expense
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type ProfitAndLoss struct {
	Period             Period          `json:"period"`
	Revenue            decimal.Decimal `json:"revenue"`
	SalesDiscount      decimal.Decimal `json:"salesDiscount"`
	Purchases          decimal.Decimal `json:"purchases"`
	PurchaseReturns    decimal.Decimal `json:"purchaseReturns"`
	CostOfGoods        decimal.Decimal `json:"costOfGoods"`
	GrossProfit        decimal.Decimal `json:"grossProfit"`
	Expenses           decimal.Decimal `json:"expenses"`
	ExpensesByCategory []CategoryTotal `json:"expensesByCategory"`
	NetProfit          decimal.Decimal `json:"netProfit"`
	SaleCount          int             `json:"saleCount"`
	PurchaseCount      int             `json:"purchaseCount"`
	ReturnCount        int             `json:"returnCount"`
	ExpenseCount       int             `json:"expenseCount"`
	Undated            int             `json:"undated"`
}

// Compute builds the statement. Revenue is sales net of discount, cost of
// goods is purchase invoices less purchase returns. Documents whose date
// cannot be read are left out of bounded periods and counted in Undated.
func Compute(in Input, p Period) (ProfitAndLoss, error) {
	from, to, err := p.parse()
	if err != nil {
		return ProfitAndLoss{}, err
	}
	bounded := !from.IsZero() || !to.IsZero()
	r := ProfitAndLoss{Period: p, ExpensesByCategory: []CategoryTotal{}}

	include := func(date string) bool {
		if !bounded {
			return true
		}
		d, ok := parseDate(date)
		if !ok {
			r.Undated++
			return false
		}
		if !from.IsZero() && d.Before(from) {
			return false
		}
		if !to.IsZero() && d.After(to) {
			return false
		}
		return true
	}

	for _, s := range in.Sales {
		if include(s.Date) {
			r.Revenue = r.Revenue.Add(s.TotalNetAmount)
			r.SalesDiscount = r.SalesDiscount.Add(s.TotalDiscount)
			r.SaleCount++
		}
	}
	for _, pi := range in.PurchaseInvoices {
		if include(pi.Date) {
			r.Purchases = r.Purchases.Add(pi.TotalNetAmount)
			r.PurchaseCount++
		}
	}
	for _, pr := range in.PurchaseReturns {
		if include(pr.Date) {
			r.PurchaseReturns = r.PurchaseReturns.Add(pr.SubTotal)
			r.ReturnCount++
		}
	}
	byCategory := map[string]decimal.Decimal{}
	for _, e := range in.Expenses {
		if include(e.Date) {
			r.Expenses = r.Expenses.Add(e.Amount)
			cat := strings.TrimSpace(e.Category)
			if cat == "" {
				cat = "Uncategorized"
			}
			byCategory[cat] = byCategory[cat].Add(e.Amount)
			r.ExpenseCount++
		}
	}
	for cat, amt := range byCategory {
		r.ExpensesByCategory = append(r.ExpensesByCategory, CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(r.ExpensesByCategory, func(i, j int) bool {
		return r.ExpensesByCategory[i].Category < r.ExpensesByCategory[j].Category
	})

	r.CostOfGoods = r.Purchases.Sub(r.PurchaseReturns)
	r.GrossProfit = r.Revenue.Sub(r.CostOfGoods)
	r.NetProfit = r.GrossProfit.Sub(r.Expenses)
	return r, nil
}

// parseDate reads the leading calendar date of an ISO date or timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(time.DateOnly) {
		return time.Time{}, false
	}
	d, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
