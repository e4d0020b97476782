package app

import (
	"context"
	"fmt"

	"erp-sync/internal/api"
	"erp-sync/internal/core"
	"erp-sync/internal/loader"
	"erp-sync/internal/notify"
	"erp-sync/internal/report"
	"erp-sync/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type appService struct {
	backend  api.Backend
	store    *store.Store
	loader   *loader.Coordinator
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(backend api.Backend, st *store.Store, notifier notify.Notifier, log zerolog.Logger) ApplicationService {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &appService{
		backend:  backend,
		store:    st,
		loader:   loader.NewCoordinator(notifier, log),
		notifier: notifier,
		log:      log,
	}
}

func (s *appService) Store() *store.Store { return s.store }

func (s *appService) products() resource[core.InventoryItem] {
	return resource[core.InventoryItem]{
		label:   "product",
		col:     s.store.Inventory,
		ep:      api.Products,
		decode:  core.DecodeInventoryItem,
		withKey: func(i core.InventoryItem, k store.Key) core.InventoryItem { i.ID = k.ID; return i },
		payload: func(i core.InventoryItem) any { return i },
	}
}

func (s *appService) parties(label string, col *store.Collection[core.Party], ep api.Endpoint) resource[core.Party] {
	return resource[core.Party]{
		label:   label,
		col:     col,
		ep:      ep,
		decode:  core.DecodeParty,
		withKey: func(p core.Party, k store.Key) core.Party { p.ID = k.ID; return p },
		payload: func(p core.Party) any { return p },
	}
}

func (s *appService) categories() resource[core.Category] {
	return resource[core.Category]{
		label:   "category",
		col:     s.store.Categories,
		ep:      api.Categories,
		decode:  core.DecodeCategory,
		withKey: func(c core.Category, k store.Key) core.Category { c.ID = k.ID; return c },
		payload: func(c core.Category) any { return c },
	}
}

func (s *appService) sales() resource[core.Sale] {
	return resource[core.Sale]{
		label:  "sale",
		col:    s.store.Sales,
		ep:     api.Sales,
		decode: core.DecodeSale,
		withKey: func(x core.Sale, k store.Key) core.Sale {
			x.InvoiceNumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.Sale) any { return x.ForPayload() },
	}
}

func (s *appService) quotations() resource[core.Quotation] {
	return resource[core.Quotation]{
		label:  "quotation",
		col:    s.store.Quotations,
		ep:     api.Quotations,
		decode: core.DecodeQuotation,
		withKey: func(x core.Quotation, k store.Key) core.Quotation {
			x.QuotationNumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.Quotation) any { return x.ForPayload() },
	}
}

func (s *appService) purchaseOrders() resource[core.PurchaseOrder] {
	return resource[core.PurchaseOrder]{
		label:  "purchase order",
		col:    s.store.PurchaseOrders,
		ep:     api.PurchaseOrders,
		decode: core.DecodePurchaseOrder,
		withKey: func(x core.PurchaseOrder, k store.Key) core.PurchaseOrder {
			x.PONumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.PurchaseOrder) any { return x.ForPayload() },
	}
}

func (s *appService) purchaseInvoices() resource[core.PurchaseInvoice] {
	return resource[core.PurchaseInvoice]{
		label:  "purchase invoice",
		col:    s.store.PurchaseInvoices,
		ep:     api.PurchaseInvoices,
		decode: core.DecodePurchaseInvoice,
		withKey: func(x core.PurchaseInvoice, k store.Key) core.PurchaseInvoice {
			x.InvoiceNumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.PurchaseInvoice) any { return x.ForPayload() },
	}
}

func (s *appService) grns() resource[core.GRN] {
	return resource[core.GRN]{
		label:  "GRN",
		col:    s.store.GRNs,
		ep:     api.GRNs,
		decode: core.DecodeGRN,
		withKey: func(x core.GRN, k store.Key) core.GRN {
			x.GRNNumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.GRN) any { return x.ForPayload() },
	}
}

func (s *appService) purchaseReturns() resource[core.PurchaseReturn] {
	return resource[core.PurchaseReturn]{
		label:  "purchase return",
		col:    s.store.PurchaseReturns,
		ep:     api.PurchaseReturns,
		decode: core.DecodePurchaseReturn,
		withKey: func(x core.PurchaseReturn, k store.Key) core.PurchaseReturn {
			x.ReturnNumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.PurchaseReturn) any { return x.ForPayload() },
	}
}

func (s *appService) expenses() resource[core.Expense] {
	return resource[core.Expense]{
		label:  "expense",
		col:    s.store.Expenses,
		ep:     api.Expenses,
		decode: core.DecodeExpense,
		withKey: func(x core.Expense, k store.Key) core.Expense {
			x.ExpenseNumber, x.ID = k.Number, k.ID
			return x
		},
		payload: func(x core.Expense) any { return x.ForPayload() },
	}
}

func (s *appService) vouchers(kind core.VoucherKind) resource[core.Voucher] {
	r := resource[core.Voucher]{
		label:  "receipt voucher",
		col:    s.store.ReceiptVouchers,
		ep:     api.ReceiptVouchers,
		decode: core.DecodeVoucher(kind),
		withKey: func(x core.Voucher, k store.Key) core.Voucher {
			x.VoucherNumber, x.ID = k.Number, k.ID
			x.Kind = kind
			return x
		},
		payload: func(x core.Voucher) any { return x.ForPayload() },
	}
	if kind == core.PaymentVoucher {
		r.label, r.col, r.ep = "payment voucher", s.store.PaymentVouchers, api.PaymentVouchers
	}
	return r
}

func load[T any](ctx context.Context, s *appService, r resource[T], opts ...loader.Option) []T {
	return loader.Load(ctx, s.loader, r.col, loader.FetchList(s.backend, r.ep, r.decode), opts...)
}

func (s *appService) LoadInventory(ctx context.Context) []core.InventoryItem {
	return load(ctx, s, s.products())
}

func (s *appService) LoadCustomers(ctx context.Context) []core.Party {
	return load(ctx, s, s.parties("customer", s.store.Customers, api.Customers))
}

func (s *appService) LoadSuppliers(ctx context.Context) []core.Party {
	return load(ctx, s, s.parties("supplier", s.store.Suppliers, api.Suppliers))
}

func (s *appService) LoadCategories(ctx context.Context) []core.Category {
	return load(ctx, s, s.categories())
}

func (s *appService) LoadSales(ctx context.Context) []core.Sale { return load(ctx, s, s.sales()) }

func (s *appService) LoadQuotations(ctx context.Context) []core.Quotation {
	return load(ctx, s, s.quotations())
}

func (s *appService) LoadPurchaseOrders(ctx context.Context) []core.PurchaseOrder {
	return load(ctx, s, s.purchaseOrders())
}

func (s *appService) LoadPurchaseInvoices(ctx context.Context) []core.PurchaseInvoice {
	return load(ctx, s, s.purchaseInvoices())
}

func (s *appService) LoadGRNs(ctx context.Context) []core.GRN { return load(ctx, s, s.grns()) }

func (s *appService) LoadPurchaseReturns(ctx context.Context) []core.PurchaseReturn {
	return load(ctx, s, s.purchaseReturns())
}

func (s *appService) LoadExpenses(ctx context.Context) []core.Expense {
	return load(ctx, s, s.expenses())
}

func (s *appService) LoadVouchers(ctx context.Context, kind core.VoucherKind) []core.Voucher {
	return load(ctx, s, s.vouchers(kind))
}

// loaders maps resource names to a load that honours opts.
func (s *appService) loaders() map[string]func(context.Context, ...loader.Option) {
	return map[string]func(context.Context, ...loader.Option){
		store.ResInventory:        func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.products(), o...) },
		store.ResCustomers:        func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.parties("customer", s.store.Customers, api.Customers), o...) },
		store.ResSuppliers:        func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.parties("supplier", s.store.Suppliers, api.Suppliers), o...) },
		store.ResCategories:       func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.categories(), o...) },
		store.ResSales:            func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.sales(), o...) },
		store.ResQuotations:       func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.quotations(), o...) },
		store.ResPurchaseOrders:   func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.purchaseOrders(), o...) },
		store.ResPurchaseInvoices: func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.purchaseInvoices(), o...) },
		store.ResGRNs:             func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.grns(), o...) },
		store.ResPurchaseReturns:  func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.purchaseReturns(), o...) },
		store.ResExpenses:         func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.expenses(), o...) },
		store.ResReceiptVouchers:  func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.vouchers(core.ReceiptVoucher), o...) },
		store.ResPaymentVouchers:  func(ctx context.Context, o ...loader.Option) { load(ctx, s, s.vouchers(core.PaymentVoucher), o...) },
	}
}

// LoadAll loads every resource, four at a time.
func (s *appService) LoadAll(ctx context.Context) []store.Status {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, fn := range s.loaders() {
		fn := fn
		g.Go(func() error {
			fn(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return s.store.Status()
}

// Refresh re-fetches resource regardless of its loaded flag.
func (s *appService) Refresh(ctx context.Context, resource string) error {
	fn, ok := s.loaders()[resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}
	fn(ctx, loader.Refresh())
	return nil
}

// NextNumber loads the series' collection if needed and derives the next key.
func (s *appService) NextNumber(ctx context.Context, series core.Series) string {
	var keys []string
	switch series.Name {
	case core.SeriesSale.Name:
		for _, x := range s.LoadSales(ctx) {
			keys = append(keys, x.InvoiceNumber)
		}
	case core.SeriesQuotation.Name:
		for _, x := range s.LoadQuotations(ctx) {
			keys = append(keys, x.QuotationNumber)
		}
	case core.SeriesPurchaseOrder.Name:
		for _, x := range s.LoadPurchaseOrders(ctx) {
			keys = append(keys, x.PONumber)
		}
	case core.SeriesPurchaseInvoice.Name:
		for _, x := range s.LoadPurchaseInvoices(ctx) {
			keys = append(keys, x.InvoiceNumber)
		}
	case core.SeriesGRN.Name:
		for _, x := range s.LoadGRNs(ctx) {
			keys = append(keys, x.GRNNumber)
		}
	case core.SeriesPurchaseReturn.Name:
		for _, x := range s.LoadPurchaseReturns(ctx) {
			keys = append(keys, x.ReturnNumber)
		}
	case core.SeriesExpense.Name:
		for _, x := range s.LoadExpenses(ctx) {
			keys = append(keys, x.ExpenseNumber)
		}
	case core.SeriesReceiptVoucher.Name:
		for _, x := range s.LoadVouchers(ctx, core.ReceiptVoucher) {
			keys = append(keys, x.VoucherNumber)
		}
	case core.SeriesPaymentVoucher.Name:
		for _, x := range s.LoadVouchers(ctx, core.PaymentVoucher) {
			keys = append(keys, x.VoucherNumber)
		}
	}
	return series.Next(keys)
}

// StockLevels returns the inventory and its low-stock subset.
func (s *appService) StockLevels(ctx context.Context) *StockResult {
	items := s.LoadInventory(ctx)
	return &StockResult{Items: items, Low: core.LowStock(items)}
}

// ProfitAndLoss loads the documents the statement needs and computes it.
func (s *appService) ProfitAndLoss(ctx context.Context, req ProfitAndLossRequest) (*report.ProfitAndLoss, error) {
	in := report.Input{
		Sales:            s.LoadSales(ctx),
		PurchaseInvoices: s.LoadPurchaseInvoices(ctx),
		PurchaseReturns:  s.LoadPurchaseReturns(ctx),
		Expenses:         s.LoadExpenses(ctx),
	}
	pl, err := report.Compute(in, report.Period{From: req.From, To: req.To})
	if err != nil {
		return nil, err
	}
	return &pl, nil
}
