package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const plSheet = "Profit and Loss"

type plRow struct {
	label  string
	amount *decimal.Decimal
	strong bool
}

// WriteXLSX renders r as a single-sheet workbook.
func WriteXLSX(w io.Writer, r ProfitAndLoss) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", plSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	period := "All dates"
	if r.Period.From != "" || r.Period.To != "" {
		period = fmt.Sprintf("%s to %s", orOpen(r.Period.From), orOpen(r.Period.To))
	}

	rows := []plRow{
		{label: "Profit and Loss", strong: true},
		{label: period},
		{},
		{label: "Revenue (net sales)", amount: &r.Revenue},
		{label: "Sales discount given", amount: &r.SalesDiscount},
		{label: "Purchases", amount: &r.Purchases},
		{label: "Less purchase returns", amount: &r.PurchaseReturns},
		{label: "Cost of goods", amount: &r.CostOfGoods, strong: true},
		{label: "Gross profit", amount: &r.GrossProfit, strong: true},
		{},
		{label: "Expenses", strong: true},
	}
	for i := range r.ExpensesByCategory {
		c := &r.ExpensesByCategory[i]
		rows = append(rows, plRow{label: "  " + c.Category, amount: &c.Amount})
	}
	rows = append(rows,
		plRow{label: "Total expenses", amount: &r.Expenses, strong: true},
		plRow{label: "Net profit", amount: &r.NetProfit, strong: true},
	)

	for i, row := range rows {
		n := i + 1
		a, _ := excelize.CoordinatesToCellName(1, n)
		b, _ := excelize.CoordinatesToCellName(2, n)
		if row.label != "" {
			f.SetCellValue(plSheet, a, row.label)
		}
		if row.amount != nil {
			f.SetCellValue(plSheet, b, row.amount.InexactFloat64())
			f.SetCellStyle(plSheet, b, b, money)
		}
		if row.strong {
			f.SetCellStyle(plSheet, a, a, bold)
		}
	}
	f.SetColWidth(plSheet, "A", "A", 32)
	f.SetColWidth(plSheet, "B", "B", 18)
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func orOpen(s string) string {
	if s == "" {
		return "open"
	}
	return s
}
