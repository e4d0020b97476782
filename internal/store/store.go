// Package store holds the process-wide cached copy of every backend
// resource. All mutation goes through the enumerated collection actions,
// so every change is visible in the journal.
package store

import "erp-sync/internal/core"

// Store is the shared application state. It is safe for concurrent use.
type Store struct {
	Journal *Journal

	Inventory  *Collection[core.InventoryItem]
	Customers  *Collection[core.Party]
	Suppliers  *Collection[core.Party]
	Categories *Collection[core.Category]

	Sales            *Collection[core.Sale]
	Quotations       *Collection[core.Quotation]
	PurchaseOrders   *Collection[core.PurchaseOrder]
	PurchaseInvoices *Collection[core.PurchaseInvoice]
	GRNs             *Collection[core.GRN]
	PurchaseReturns  *Collection[core.PurchaseReturn]
	Expenses         *Collection[core.Expense]
	ReceiptVouchers  *Collection[core.Voucher]
	PaymentVouchers  *Collection[core.Voucher]
}

// Resource names, shared by the loader keys, the journal and the web adapter.
const (
	ResInventory        = "inventory"
	ResCustomers        = "customers"
	ResSuppliers        = "suppliers"
	ResCategories       = "categories"
	ResSales            = "sales"
	ResQuotations       = "quotations"
	ResPurchaseOrders   = "purchase-orders"
	ResPurchaseInvoices = "purchase-invoices"
	ResGRNs             = "grns"
	ResPurchaseReturns  = "purchase-returns"
	ResExpenses         = "expenses"
	ResReceiptVouchers  = "receipt-vouchers"
	ResPaymentVouchers  = "payment-vouchers"
)

// New returns an empty store whose journal keeps the last journalLimit
// actions.
func New(journalLimit int) *Store {
	j := NewJournal(journalLimit)
	return &Store{
		Journal:    j,
		Inventory:  NewCollection(ResInventory, j, func(i core.InventoryItem) Key { return Key{ID: i.ID} }),
		Customers:  NewCollection(ResCustomers, j, partyKey),
		Suppliers:  NewCollection(ResSuppliers, j, partyKey),
		Categories: NewCollection(ResCategories, j, func(c core.Category) Key { return Key{ID: c.ID} }),

		Sales:            NewCollection(ResSales, j, func(s core.Sale) Key { return Key{Number: s.InvoiceNumber, ID: s.ID} }),
		Quotations:       NewCollection(ResQuotations, j, func(q core.Quotation) Key { return Key{Number: q.QuotationNumber, ID: q.ID} }),
		PurchaseOrders:   NewCollection(ResPurchaseOrders, j, func(p core.PurchaseOrder) Key { return Key{Number: p.PONumber, ID: p.ID} }),
		PurchaseInvoices: NewCollection(ResPurchaseInvoices, j, func(p core.PurchaseInvoice) Key { return Key{Number: p.InvoiceNumber, ID: p.ID} }),
		GRNs:             NewCollection(ResGRNs, j, func(g core.GRN) Key { return Key{Number: g.GRNNumber, ID: g.ID} }),
		PurchaseReturns:  NewCollection(ResPurchaseReturns, j, func(r core.PurchaseReturn) Key { return Key{Number: r.ReturnNumber, ID: r.ID} }),
		Expenses:         NewCollection(ResExpenses, j, func(e core.Expense) Key { return Key{Number: e.ExpenseNumber, ID: e.ID} }),
		ReceiptVouchers:  NewCollection(ResReceiptVouchers, j, voucherKey),
		PaymentVouchers:  NewCollection(ResPaymentVouchers, j, voucherKey),
	}
}

func partyKey(p core.Party) Key     { return Key{ID: p.ID} }
func voucherKey(v core.Voucher) Key { return Key{Number: v.VoucherNumber, ID: v.ID} }

// Status is the loading state of one collection.
type Status struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
	Loaded   bool   `json:"loaded"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
}

type statusSource interface {
	Name() string
	Len() int
	Loaded() bool
	Loading() bool
	Err() string
}

func (s *Store) collections() []statusSource {
	return []statusSource{
		s.Inventory, s.Customers, s.Suppliers, s.Categories,
		s.Sales, s.Quotations, s.PurchaseOrders, s.PurchaseInvoices,
		s.GRNs, s.PurchaseReturns, s.Expenses, s.ReceiptVouchers, s.PaymentVouchers,
	}
}

// Status reports every collection in a fixed order.
func (s *Store) Status() []Status {
	var out []Status
	for _, c := range s.collections() {
		out = append(out, Status{
			Resource: c.Name(),
			Count:    c.Len(),
			Loaded:   c.Loaded(),
			Loading:  c.Loading(),
			Error:    c.Err(),
		})
	}
	return out
}
