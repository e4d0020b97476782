package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"erp-sync/internal/adapters/repl"
	"erp-sync/internal/app"
	"erp-sync/internal/core"
	"erp-sync/internal/report"
	"erp-sync/internal/store"

	"github.com/spf13/cobra"
)

type serviceGetter func() (app.ApplicationService, error)

func newLoadCommand(get serviceGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [resource...]",
		Short: "Load resources from the backend and print their state",
		Example: `  # Load everything
  erpsync load

  # Re-fetch sales and inventory only
  erpsync load sales inventory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if len(args) == 0 {
				printStatus(cmd.OutOrStdout(), svc.LoadAll(ctx))
				return nil
			}
			for _, res := range args {
				if err := svc.Refresh(ctx, res); err != nil {
					return err
				}
			}
			printStatus(cmd.OutOrStdout(), pick(svc.Store().Status(), args))
			return nil
		},
	}
	return cmd
}

func pick(all []store.Status, names []string) []store.Status {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []store.Status
	for _, s := range all {
		if want[s.Resource] {
			out = append(out, s)
		}
	}
	return out
}

func printStatus(w io.Writer, statuses []store.Status) {
	fmt.Fprintf(w, "%-20s %8s  %s\n", "RESOURCE", "COUNT", "STATE")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, s := range statuses {
		state := "loaded"
		switch {
		case s.Error != "":
			state = "error: " + s.Error
		case s.Loading:
			state = "loading"
		case !s.Loaded:
			state = "not loaded"
		}
		fmt.Fprintf(w, "%-20s %8d  %s\n", s.Resource, s.Count, state)
	}
}

func newNextNumberCommand(get serviceGetter) *cobra.Command {
	return &cobra.Command{
		Use:       "next-number <series>",
		Short:     "Print the next business key of a document series",
		Args:      cobra.ExactArgs(1),
		ValidArgs: seriesNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, ok := core.AllSeries[args[0]]
			if !ok {
				return fmt.Errorf("unknown series %q (known: %s)", args[0], strings.Join(seriesNames(), ", "))
			}
			svc, err := get()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.NextNumber(cmd.Context(), series))
			return nil
		},
	}
}

func seriesNames() []string {
	names := make([]string, 0, len(core.AllSeries))
	for n := range core.AllSeries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newStockCommand(get serviceGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Print stock levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			lowOnly, _ := cmd.Flags().GetBool("low")
			svc, err := get()
			if err != nil {
				return err
			}
			res := svc.StockLevels(cmd.Context())
			items := res.Items
			if lowOnly {
				items = res.Low
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-30s %12s %12s\n", "ITEM", "STOCK", "MINIMUM")
			fmt.Fprintln(w, strings.Repeat("-", 56))
			for _, it := range items {
				fmt.Fprintf(w, "%-30s %12s %12s\n", it.ItemName, it.Stock.String(), it.MinimumStockLevel.String())
			}
			return nil
		},
	}
	cmd.Flags().Bool("low", false, "Only items at or below their minimum level")
	return cmd
}

func newReportCommand(get serviceGetter) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}

	plCmd := &cobra.Command{
		Use:   "pl",
		Short: "Profit and loss statement",
		Example: `  erpsync report pl --from 2026-01-01 --to 2026-03-31
  erpsync report pl --from 2026-01-01 --xlsx pl.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			xlsxPath, _ := cmd.Flags().GetString("xlsx")

			svc, err := get()
			if err != nil {
				return err
			}
			pl, err := svc.ProfitAndLoss(cmd.Context(), app.ProfitAndLossRequest{From: from, To: to})
			if err != nil {
				return err
			}
			if xlsxPath == "" {
				printProfitAndLoss(cmd.OutOrStdout(), pl)
				return nil
			}

			f, err := os.Create(xlsxPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", xlsxPath, err)
			}
			if err := report.WriteXLSX(f, *pl); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", xlsxPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", xlsxPath)
			return nil
		},
	}
	plCmd.Flags().String("from", "", "First date, YYYY-MM-DD (default: open)")
	plCmd.Flags().String("to", "", "Last date, YYYY-MM-DD (default: open)")
	plCmd.Flags().String("xlsx", "", "Write the statement to this xlsx file instead of stdout")

	reportCmd.AddCommand(plCmd)
	return reportCmd
}

func printProfitAndLoss(w io.Writer, pl *report.ProfitAndLoss) {
	line := func(label, v string) {
		fmt.Fprintf(w, "  %-34s %15s\n", label, v)
	}
	fmt.Fprintln(w, strings.Repeat("=", 54))
	fmt.Fprintf(w, "  PROFIT AND LOSS  %s to %s\n", orOpen(pl.Period.From), orOpen(pl.Period.To))
	fmt.Fprintln(w, strings.Repeat("=", 54))
	line("Revenue", pl.Revenue.StringFixed(2))
	line("Purchases", pl.Purchases.StringFixed(2))
	line("Purchase returns", pl.PurchaseReturns.StringFixed(2))
	line("Cost of goods", pl.CostOfGoods.StringFixed(2))
	line("Gross profit", pl.GrossProfit.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 54))
	for _, c := range pl.ExpensesByCategory {
		line("  "+c.Category, c.Amount.StringFixed(2))
	}
	line("Expenses", pl.Expenses.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("=", 54))
	line("Net profit", pl.NetProfit.StringFixed(2))
	if pl.Undated > 0 {
		fmt.Fprintf(w, "  (%d undated documents left out)\n", pl.Undated)
	}
}

func orOpen(s string) string {
	if s == "" {
		return "open"
	}
	return s
}

func newQuotationCommand(get serviceGetter) *cobra.Command {
	quotationCmd := &cobra.Command{
		Use:   "quotation",
		Short: "Quotation operations",
	}

	importCmd := &cobra.Command{
		Use:   "import <quotation-number>",
		Short: "Convert an open quotation into a new sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			svc, err := get()
			if err != nil {
				return err
			}
			svc.LoadCustomers(cmd.Context())
			svc.LoadInventory(cmd.Context())
			res, err := svc.ImportQuotation(cmd.Context(), app.ImportQuotationRequest{QuotationNumber: args[0], Date: date})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created sale %s from %s (total %s)\n",
				res.Sale.InvoiceNumber, res.Quotation.QuotationNumber, res.Sale.TotalNetAmount.StringFixed(2))
			if !res.QuotationSynced {
				fmt.Fprintln(w, "Warning: quotation could not be marked converted on the backend")
			}
			if len(res.Stock.Unmatched) > 0 {
				fmt.Fprintf(w, "Not in inventory: %s\n", strings.Join(res.Stock.Unmatched, ", "))
			}
			return nil
		},
	}
	importCmd.Flags().String("date", "", "Sale date, YYYY-MM-DD (default: the quotation date)")

	quotationCmd.AddCommand(importCmd)
	return quotationCmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <resource>",
		Short:     "Print the JSON Schema of a resource payload",
		Args:      cobra.ExactArgs(1),
		ValidArgs: core.SchemaNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := core.Schema(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
}

func newShellCommand(get serviceGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell over the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := get()
			if err != nil {
				return err
			}
			repl.Run(cmd.Context(), svc, cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}
}
