package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"erp-sync/internal/app"
	"erp-sync/internal/core"
)

var errExit = errors.New("exit")

// Run starts the interactive shell. It reads slash commands from in until
// /exit or end of input and writes everything to out.
func Run(ctx context.Context, svc app.ApplicationService, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "ERP sync shell")
	fmt.Fprintln(out, "Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	s := &shell{ctx: ctx, svc: svc, reader: reader, out: out}
	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			if !strings.HasPrefix(input, "/") {
				fmt.Fprintln(out, "Commands start with /. Type /help for all commands.")
			} else if derr := s.dispatch(input); derr != nil {
				if errors.Is(derr, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return
				}
				fmt.Fprintf(out, "Error: %v\n", derr)
			}
		}
		if err != nil {
			fmt.Fprintln(out)
			return
		}
	}
}

type shell struct {
	ctx    context.Context
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
}

func (s *shell) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	ctx := s.ctx

	switch cmd {
	case "status":
		printStatus(s.out, s.svc.Store().Status())

	case "load":
		if len(args) == 0 {
			printStatus(s.out, s.svc.LoadAll(ctx))
			return nil
		}
		for _, res := range args {
			if err := s.svc.Refresh(ctx, res); err != nil {
				return err
			}
		}
		printStatus(s.out, s.svc.Store().Status())

	case "customers":
		printParties(s.out, "CUSTOMERS", s.svc.LoadCustomers(ctx))

	case "suppliers":
		printParties(s.out, "SUPPLIERS", s.svc.LoadSuppliers(ctx))

	case "products", "stock":
		res := s.svc.StockLevels(ctx)
		items := res.Items
		if len(args) > 0 && args[0] == "low" {
			items = res.Low
		}
		printStock(s.out, items)

	case "sales":
		printSales(s.out, s.svc.LoadSales(ctx), s.svc.LoadCustomers(ctx))

	case "next":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /next <series>")
			return nil
		}
		series, ok := core.AllSeries[args[0]]
		if !ok {
			return fmt.Errorf("unknown series %q", args[0])
		}
		fmt.Fprintln(s.out, s.svc.NextNumber(ctx, series))

	case "new-sale":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /new-sale <customer>")
			return nil
		}
		s.newSale(strings.Join(args, " "))

	case "import":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /import <quotation-number> [date]")
			return nil
		}
		req := app.ImportQuotationRequest{QuotationNumber: args[0]}
		if len(args) > 1 {
			req.Date = args[1]
		}
		res, err := s.svc.ImportQuotation(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Sale %s created from %s.\n", res.Sale.InvoiceNumber, req.QuotationNumber)
		if !res.QuotationSynced {
			fmt.Fprintln(s.out, "Warning: the quotation is still open on the backend.")
		}

	case "pl":
		req := app.ProfitAndLossRequest{}
		if len(args) > 0 {
			req.From = args[0]
		}
		if len(args) > 1 {
			req.To = args[1]
		}
		pl, err := s.svc.ProfitAndLoss(ctx, req)
		if err != nil {
			return err
		}
		printProfitAndLoss(s.out, pl)

	case "actions":
		n := 20
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v <= 0 {
				return fmt.Errorf("invalid count %q", args[0])
			}
			n = v
		}
		j := s.svc.Store().Journal
		after := j.Last() - int64(n)
		if after < 0 {
			after = 0
		}
		printActions(s.out, j.Actions(after))

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}
