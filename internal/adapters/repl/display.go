package repl

import (
	"fmt"
	"io"
	"strings"

	"erp-sync/internal/core"
	"erp-sync/internal/report"
	"erp-sync/internal/store"
)

func printStatus(w io.Writer, statuses []store.Status) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-20s %8s  %s\n", "RESOURCE", "COUNT", "STATE")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, s := range statuses {
		state := "loaded"
		switch {
		case s.Error != "":
			state = "error: " + s.Error
		case s.Loading:
			state = "loading"
		case !s.Loaded:
			state = "-"
		}
		fmt.Fprintf(w, "  %-20s %8d  %s\n", s.Resource, s.Count, state)
	}
}

func printParties(w io.Writer, title string, parties []core.Party) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	if len(parties) == 0 {
		fmt.Fprintln(w, "  None found.")
		fmt.Fprintln(w, strings.Repeat("=", 72))
		return
	}
	fmt.Fprintf(w, "  %-26s %-25s %15s\n", "ID", "NAME", "BALANCE")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, p := range parties {
		fmt.Fprintf(w, "  %-26s %-25s %15s\n", p.ID, p.Name, p.Balance().StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func printStock(w io.Writer, items []core.InventoryItem) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-30s %12s %12s %12s\n", "ITEM", "STOCK", "MINIMUM", "RATE")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, it := range items {
		flag := ""
		if it.IsLowStock() {
			flag = "  LOW"
		}
		fmt.Fprintf(w, "  %-30s %12s %12s %12s%s\n",
			it.ItemName, it.Stock.String(), it.MinimumStockLevel.String(), it.SalesRate.StringFixed(2), flag)
	}
}

func printSales(w io.Writer, sales []core.Sale, customers []core.Party) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-12s %-12s %-25s %15s\n", "NUMBER", "DATE", "CUSTOMER", "NET")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, s := range sales {
		fmt.Fprintf(w, "  %-12s %-12s %-25s %15s\n",
			s.InvoiceNumber, s.Date, core.DisplayName(s.Customer, customers), s.TotalNetAmount.StringFixed(2))
	}
}

func printSaleDetail(w io.Writer, s core.Sale) {
	fmt.Fprintf(w, "  %-25s %8s %10s %6s %12s\n", "ITEM", "QTY", "RATE", "DISC%", "AMOUNT")
	for _, l := range s.Items {
		fmt.Fprintf(w, "  %-25s %8s %10s %6s %12s\n",
			l.ProductName, l.Quantity.String(), l.Rate.StringFixed(2), l.Percent.String(), l.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "  %-25s %39s\n", "TOTAL", s.TotalNetAmount.StringFixed(2))
}

func printProfitAndLoss(w io.Writer, pl *report.ProfitAndLoss) {
	row := func(label, v string) { fmt.Fprintf(w, "  %-34s %15s\n", label, v) }
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 54))
	fmt.Fprintln(w, "  PROFIT AND LOSS")
	fmt.Fprintln(w, strings.Repeat("=", 54))
	row("Revenue", pl.Revenue.StringFixed(2))
	row("Cost of goods", pl.CostOfGoods.StringFixed(2))
	row("Gross profit", pl.GrossProfit.StringFixed(2))
	row("Expenses", pl.Expenses.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 54))
	row("Net profit", pl.NetProfit.StringFixed(2))
}

func printActions(w io.Writer, actions []store.Action) {
	fmt.Fprintln(w)
	for _, a := range actions {
		fmt.Fprintf(w, "  %5d %s %-18s %-12s %-16s %4d %s\n",
			a.Seq, a.Time.Format("15:04:05"), a.Resource, a.Kind, a.Key, a.Count, a.Detail)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `
Commands:
  /status                     Store state per resource
  /load [resource...]         Load everything, or re-fetch named resources
  /customers, /suppliers      List parties with balances
  /stock [low]                Stock levels (low: at or below minimum)
  /sales                      List sales
  /next <series>              Next business key, e.g. /next sale
  /new-sale <customer>        Enter a sale line by line
  /import <quotation> [date]  Convert a quotation into a sale
  /pl [from] [to]             Profit and loss, dates as YYYY-MM-DD
  /actions [n]                Last n store actions (default 20)
  /help                       This help
  /exit                       Leave the shell`)
}
