package repl

import (
	"fmt"
	"strings"
	"time"

	"erp-sync/internal/core"

	"github.com/shopspring/decimal"
)

// newSale runs an interactive sale entry session.
func (s *shell) newSale(customer string) {
	s.svc.LoadCustomers(s.ctx)
	inventory := s.svc.LoadInventory(s.ctx)

	fmt.Fprintf(s.out, "Creating sale for customer: %s\n", customer)
	fmt.Fprintln(s.out, "Enter sale lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(s.out, "Format per line: <item> <quantity> [rate] [discount-%]")
	fmt.Fprintln(s.out, "  Example: Paint 10")
	fmt.Fprintln(s.out, "  Example: Paint 5 450.00 10   (overrides the item's sales rate)")

	var lines []core.LineItem
	lineNum := 1
	for {
		fmt.Fprintf(s.out, "  Line %d: ", lineNum)
		raw, err := s.reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, "cancel") || (err != nil && raw == "") {
			fmt.Fprintln(s.out, "Sale entry cancelled.")
			return
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		if raw == "" {
			continue
		}

		line, msg := parseLine(raw, inventory)
		if msg != "" {
			fmt.Fprintln(s.out, "  "+msg)
			continue
		}
		lines = append(lines, line)
		lineNum++
	}

	if len(lines) == 0 {
		fmt.Fprintln(s.out, "No lines entered. Sale not created.")
		return
	}

	fmt.Fprint(s.out, "Sale date (YYYY-MM-DD, leave blank for today): ")
	date, _ := s.reader.ReadString('\n')
	date = strings.TrimSpace(date)
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	res, err := s.svc.CreateSale(s.ctx, core.Sale{
		Date:     date,
		Customer: core.PartyRef{Name: customer},
		Items:    lines,
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error creating sale: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "\nSale %s created.\n", res.Sale.InvoiceNumber)
	printSaleDetail(s.out, res.Sale)
	if len(res.Stock.Unmatched) > 0 {
		fmt.Fprintf(s.out, "Not in inventory, stock unchanged: %s\n", strings.Join(res.Stock.Unmatched, ", "))
	}
}

// parseLine reads "<item> <quantity> [rate] [discount-%]". The item may be
// several words; the numbers are taken from the end. A missing rate is taken
// from the matching inventory item.
func parseLine(raw string, inventory []core.InventoryItem) (core.LineItem, string) {
	const usage = "Invalid format. Use: <item> <quantity> [rate] [discount-%]"
	parts := strings.Fields(raw)

	var nums []decimal.Decimal
	for len(parts) > 1 && len(nums) < 3 {
		d, err := decimal.NewFromString(parts[len(parts)-1])
		if err != nil {
			break
		}
		nums = append([]decimal.Decimal{d}, nums...)
		parts = parts[:len(parts)-1]
	}
	if len(nums) == 0 {
		return core.LineItem{}, usage
	}
	for _, n := range nums {
		if n.IsNegative() {
			return core.LineItem{}, "Values cannot be negative."
		}
	}
	if nums[0].IsZero() {
		return core.LineItem{}, "Invalid quantity."
	}

	line := core.LineItem{ProductName: strings.Join(parts, " "), Quantity: nums[0]}
	if i := core.MatchInventory(inventory, line); i >= 0 {
		line.ProductID = inventory[i].ID
		line.ProductName = inventory[i].ItemName
		line.Rate = inventory[i].SalesRate
	}
	if len(nums) > 1 {
		line.Rate = nums[1]
	}
	if len(nums) > 2 {
		line.Percent = nums[2]
	}
	return line, ""
}
