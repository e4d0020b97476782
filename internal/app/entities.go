package app

import (
	"context"

	"erp-sync/internal/api"
	"erp-sync/internal/core"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"
)

// Master records.

func (s *appService) CreateProduct(ctx context.Context, item core.InventoryItem) (core.InventoryItem, error) {
	return create(ctx, s, s.products(), item)
}

func (s *appService) UpdateProduct(ctx context.Context, id string, item core.InventoryItem) (core.InventoryItem, error) {
	return update(ctx, s, s.products(), id, item)
}

func (s *appService) DeleteProduct(ctx context.Context, id string) error {
	return remove(ctx, s, s.products(), id)
}

func (s *appService) customers() resource[core.Party] {
	return s.parties("customer", s.store.Customers, api.Customers)
}

func (s *appService) suppliers() resource[core.Party] {
	return s.parties("supplier", s.store.Suppliers, api.Suppliers)
}

func (s *appService) CreateCustomer(ctx context.Context, p core.Party) (core.Party, error) {
	return create(ctx, s, s.customers(), p)
}

func (s *appService) UpdateCustomer(ctx context.Context, id string, p core.Party) (core.Party, error) {
	return update(ctx, s, s.customers(), id, p)
}

func (s *appService) DeleteCustomer(ctx context.Context, id string) error {
	return remove(ctx, s, s.customers(), id)
}

func (s *appService) CreateSupplier(ctx context.Context, p core.Party) (core.Party, error) {
	return create(ctx, s, s.suppliers(), p)
}

func (s *appService) UpdateSupplier(ctx context.Context, id string, p core.Party) (core.Party, error) {
	return update(ctx, s, s.suppliers(), id, p)
}

func (s *appService) DeleteSupplier(ctx context.Context, id string) error {
	return remove(ctx, s, s.suppliers(), id)
}

func (s *appService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	return create(ctx, s, s.categories(), c)
}

func (s *appService) UpdateCategory(ctx context.Context, id string, c core.Category) (core.Category, error) {
	return update(ctx, s, s.categories(), id, c)
}

func (s *appService) DeleteCategory(ctx context.Context, id string) error {
	return remove(ctx, s, s.categories(), id)
}

// requireItems rejects a document without lines before anything is sent.
func (s *appService) requireItems(label string, n int) error {
	if n > 0 {
		return nil
	}
	err := &core.ValidationError{Err: core.ErrEmptyDocument, Field: label}
	s.fail("Could not save "+label, err)
	return err
}

// resolveParty canonicalizes ref against the cached party list. Nothing is
// fetched; an unknown party is kept as given.
func resolveParty(ref core.PartyRef, col *store.Collection[core.Party]) core.PartyRef {
	return core.ResolveRef(ref, col.Items())
}

// adjustStock moves stock for lines and reports what matched. It runs as a
// side effect: the primary document is already saved.
func (s *appService) adjustStock(cause string, lines []core.LineItem, dir core.Direction) core.StockResult {
	var res core.StockResult
	s.sideEffect(cause, func() {
		s.store.Inventory.Adjust(cause, func(inv []core.InventoryItem) []core.InventoryItem {
			out, r := core.AdjustStock(inv, lines, dir)
			res = r
			return out
		})
	})
	if len(res.Unmatched) > 0 {
		s.log.Debug().Str("cause", cause).Strs("unmatched", res.Unmatched).Msg("stock lines without inventory item")
	}
	return res
}

// findOrder looks up the purchase order a document links to, by id or number.
func (s *appService) findOrder(key string) *core.PurchaseOrder {
	if key == "" {
		return nil
	}
	po, ok := s.store.PurchaseOrders.Find(key)
	if !ok {
		return nil
	}
	return &po
}

// Sales.

func (s *appService) prepareSale(ctx context.Context, sale core.Sale, number bool) (core.Sale, error) {
	if err := s.requireItems("sale", len(sale.Items)); err != nil {
		return sale, err
	}
	sale.Customer = resolveParty(sale.Customer, s.store.Customers)
	if number && sale.InvoiceNumber == "" {
		sale.InvoiceNumber = s.NextNumber(ctx, core.SeriesSale)
	}
	sale.Recalculate()
	return sale, nil
}

func (s *appService) CreateSale(ctx context.Context, sale core.Sale) (*SaleResult, error) {
	sale, err := s.prepareSale(ctx, sale, true)
	if err != nil {
		return nil, err
	}
	saved, err := create(ctx, s, s.sales(), sale)
	if err != nil {
		return nil, err
	}
	return &SaleResult{
		Sale:  saved,
		Stock: s.adjustStock("sale "+saved.InvoiceNumber, saved.Items, core.Decrease),
	}, nil
}

func (s *appService) UpdateSale(ctx context.Context, key string, sale core.Sale) (core.Sale, error) {
	sale, err := s.prepareSale(ctx, sale, false)
	if err != nil {
		return core.Sale{}, err
	}
	return update(ctx, s, s.sales(), key, sale)
}

func (s *appService) DeleteSale(ctx context.Context, key string) error {
	return remove(ctx, s, s.sales(), key)
}

// Quotations.

func (s *appService) prepareQuotation(ctx context.Context, q core.Quotation, number bool) (core.Quotation, error) {
	if err := s.requireItems("quotation", len(q.Items)); err != nil {
		return q, err
	}
	q.Customer = resolveParty(q.Customer, s.store.Customers)
	if number && q.QuotationNumber == "" {
		q.QuotationNumber = s.NextNumber(ctx, core.SeriesQuotation)
	}
	if q.Status == "" {
		q.Status = core.QuotationOpen
	}
	q.Recalculate()
	return q, nil
}

func (s *appService) CreateQuotation(ctx context.Context, q core.Quotation) (core.Quotation, error) {
	q, err := s.prepareQuotation(ctx, q, true)
	if err != nil {
		return core.Quotation{}, err
	}
	return create(ctx, s, s.quotations(), q)
}

func (s *appService) UpdateQuotation(ctx context.Context, key string, q core.Quotation) (core.Quotation, error) {
	q, err := s.prepareQuotation(ctx, q, false)
	if err != nil {
		return core.Quotation{}, err
	}
	return update(ctx, s, s.quotations(), key, q)
}

func (s *appService) DeleteQuotation(ctx context.Context, key string) error {
	return remove(ctx, s, s.quotations(), key)
}

// Purchase orders.

func (s *appService) preparePurchaseOrder(ctx context.Context, p core.PurchaseOrder, number bool) (core.PurchaseOrder, error) {
	if err := s.requireItems("purchase order", len(p.Items)); err != nil {
		return p, err
	}
	p.Supplier = resolveParty(p.Supplier, s.store.Suppliers)
	if number && p.PONumber == "" {
		p.PONumber = s.NextNumber(ctx, core.SeriesPurchaseOrder)
	}
	p.Recalculate()
	return p, nil
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, p core.PurchaseOrder) (*PurchaseOrderResult, error) {
	p, err := s.preparePurchaseOrder(ctx, p, true)
	if err != nil {
		return nil, err
	}
	saved, err := create(ctx, s, s.purchaseOrders(), p)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{
		Order: saved,
		Stock: s.adjustStock("purchase order "+saved.PONumber, saved.Items, core.Increase),
	}, nil
}

func (s *appService) UpdatePurchaseOrder(ctx context.Context, key string, p core.PurchaseOrder) (core.PurchaseOrder, error) {
	p, err := s.preparePurchaseOrder(ctx, p, false)
	if err != nil {
		return core.PurchaseOrder{}, err
	}
	return update(ctx, s, s.purchaseOrders(), key, p)
}

func (s *appService) DeletePurchaseOrder(ctx context.Context, key string) error {
	return remove(ctx, s, s.purchaseOrders(), key)
}

// Purchase invoices.

func (s *appService) preparePurchaseInvoice(ctx context.Context, p core.PurchaseInvoice, number bool) (core.PurchaseInvoice, error) {
	if err := s.requireItems("purchase invoice", len(p.Items)); err != nil {
		return p, err
	}
	p.Supplier = resolveParty(p.Supplier, s.store.Suppliers)
	if number && p.InvoiceNumber == "" {
		p.InvoiceNumber = s.NextNumber(ctx, core.SeriesPurchaseInvoice)
	}
	p.Recalculate()
	return p, nil
}

func (s *appService) CreatePurchaseInvoice(ctx context.Context, p core.PurchaseInvoice) (*PurchaseInvoiceResult, error) {
	p, err := s.preparePurchaseInvoice(ctx, p, true)
	if err != nil {
		return nil, err
	}
	saved, err := create(ctx, s, s.purchaseInvoices(), p)
	if err != nil {
		return nil, err
	}
	return &PurchaseInvoiceResult{
		Invoice: saved,
		Stock:   s.adjustStock("purchase invoice "+saved.InvoiceNumber, saved.Items, core.Increase),
	}, nil
}

func (s *appService) UpdatePurchaseInvoice(ctx context.Context, key string, p core.PurchaseInvoice) (core.PurchaseInvoice, error) {
	p, err := s.preparePurchaseInvoice(ctx, p, false)
	if err != nil {
		return core.PurchaseInvoice{}, err
	}
	return update(ctx, s, s.purchaseInvoices(), key, p)
}

func (s *appService) DeletePurchaseInvoice(ctx context.Context, key string) error {
	return remove(ctx, s, s.purchaseInvoices(), key)
}

// GRNs.

func (s *appService) CreateGRN(ctx context.Context, g core.GRN) (*GRNResult, error) {
	if err := s.requireItems("GRN", len(g.Items)); err != nil {
		return nil, err
	}
	g.Supplier = resolveParty(g.Supplier, s.store.Suppliers)
	if g.GRNNumber == "" {
		g.GRNNumber = s.NextNumber(ctx, core.SeriesGRN)
	}
	g.Recalculate()

	saved, err := create(ctx, s, s.grns(), g)
	if err != nil {
		return nil, err
	}

	res := &GRNResult{GRN: saved}
	cause := "grn " + saved.GRNNumber
	s.sideEffect(cause, func() {
		po := s.findOrder(saved.LinkedPOID)
		s.store.Inventory.Adjust(cause, func(inv []core.InventoryItem) []core.InventoryItem {
			out, order, r := core.ApplyGRN(inv, po, saved)
			res.Stock, res.Order = r, order
			return out
		})
		if res.Order != nil {
			order := *res.Order
			s.store.PurchaseOrders.Update(saved.LinkedPOID, func(core.PurchaseOrder) core.PurchaseOrder { return order })
		}
	})
	return res, nil
}

// Purchase returns.

func (s *appService) preparePurchaseReturn(ctx context.Context, r core.PurchaseReturn, number bool) (core.PurchaseReturn, error) {
	if err := s.requireItems("purchase return", len(r.Items)); err != nil {
		return r, err
	}
	r.Supplier = resolveParty(r.Supplier, s.store.Suppliers)
	if number && r.ReturnNumber == "" {
		r.ReturnNumber = s.NextNumber(ctx, core.SeriesPurchaseReturn)
	}
	r.Recalculate()
	return r, nil
}

func (s *appService) CreatePurchaseReturn(ctx context.Context, r core.PurchaseReturn) (*PurchaseReturnResult, error) {
	r, err := s.preparePurchaseReturn(ctx, r, true)
	if err != nil {
		return nil, err
	}
	saved, err := create(ctx, s, s.purchaseReturns(), r)
	if err != nil {
		return nil, err
	}

	res := &PurchaseReturnResult{Return: saved}
	cause := "purchase return " + saved.ReturnNumber
	s.sideEffect(cause, func() {
		po := s.findOrder(saved.LinkedPOID)
		var supplier *core.Party
		if saved.Supplier.ID != "" {
			if p, ok := s.store.Suppliers.Find(saved.Supplier.ID); ok {
				supplier = &p
			}
		}
		s.store.Inventory.Adjust(cause, func(inv []core.InventoryItem) []core.InventoryItem {
			res.Effect = core.ApplyPurchaseReturn(inv, po, supplier, saved)
			if !res.Effect.Applied {
				return inv
			}
			return res.Effect.Inventory
		})
		if !res.Effect.Applied {
			return
		}
		if eff := res.Effect.PurchaseOrder; eff != nil {
			s.store.PurchaseOrders.Update(saved.LinkedPOID, func(core.PurchaseOrder) core.PurchaseOrder { return *eff })
		}
		if sup := res.Effect.Supplier; sup != nil {
			s.store.Suppliers.Update(sup.ID, func(core.Party) core.Party { return *sup })
		}
	})

	level := notify.Success
	if !res.Effect.Applied {
		level = notify.Info
	}
	s.notifier.Notify(notify.Notification{Level: level, Title: "Purchase return stock", Message: res.Effect.Message})
	return res, nil
}

func (s *appService) UpdatePurchaseReturn(ctx context.Context, key string, r core.PurchaseReturn) (core.PurchaseReturn, error) {
	r, err := s.preparePurchaseReturn(ctx, r, false)
	if err != nil {
		return core.PurchaseReturn{}, err
	}
	return update(ctx, s, s.purchaseReturns(), key, r)
}

func (s *appService) DeletePurchaseReturn(ctx context.Context, key string) error {
	return remove(ctx, s, s.purchaseReturns(), key)
}

// Expenses.

func (s *appService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ExpenseNumber == "" {
		e.ExpenseNumber = s.NextNumber(ctx, core.SeriesExpense)
	}
	return create(ctx, s, s.expenses(), e)
}

func (s *appService) UpdateExpense(ctx context.Context, key string, e core.Expense) (core.Expense, error) {
	return update(ctx, s, s.expenses(), key, e)
}

func (s *appService) DeleteExpense(ctx context.Context, key string) error {
	return remove(ctx, s, s.expenses(), key)
}

// Vouchers.

func voucherSeries(kind core.VoucherKind) core.Series {
	if kind == core.PaymentVoucher {
		return core.SeriesPaymentVoucher
	}
	return core.SeriesReceiptVoucher
}

func (s *appService) prepareVoucher(v core.Voucher) core.Voucher {
	if v.Kind == "" {
		v.Kind = core.ReceiptVoucher
	}
	parties := s.store.Customers
	if v.Kind == core.PaymentVoucher {
		parties = s.store.Suppliers
	}
	v.Party = resolveParty(v.Party, parties)
	return v
}

func (s *appService) CreateVoucher(ctx context.Context, v core.Voucher) (core.Voucher, error) {
	v = s.prepareVoucher(v)
	if v.VoucherNumber == "" {
		v.VoucherNumber = s.NextNumber(ctx, voucherSeries(v.Kind))
	}
	return create(ctx, s, s.vouchers(v.Kind), v)
}

func (s *appService) UpdateVoucher(ctx context.Context, key string, v core.Voucher) (core.Voucher, error) {
	v = s.prepareVoucher(v)
	return update(ctx, s, s.vouchers(v.Kind), key, v)
}

func (s *appService) DeleteVoucher(ctx context.Context, kind core.VoucherKind, key string) error {
	if kind == "" {
		kind = core.ReceiptVoucher
	}
	return remove(ctx, s, s.vouchers(kind), key)
}
