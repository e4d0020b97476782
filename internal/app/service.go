package app

import (
	"context"

	"erp-sync/internal/core"
	"erp-sync/internal/report"
	"erp-sync/internal/store"
)

// ApplicationService is the single interface the CLI and web adapters call.
// Loads never fail: a failed fetch leaves an error on the collection, sends
// a notification and returns the cached records. Mutations return their
// error after restoring the store to its state before the call.
type ApplicationService interface {
	// Store returns the shared application state.
	Store() *store.Store

	LoadInventory(ctx context.Context) []core.InventoryItem
	LoadCustomers(ctx context.Context) []core.Party
	LoadSuppliers(ctx context.Context) []core.Party
	LoadCategories(ctx context.Context) []core.Category
	LoadSales(ctx context.Context) []core.Sale
	LoadQuotations(ctx context.Context) []core.Quotation
	LoadPurchaseOrders(ctx context.Context) []core.PurchaseOrder
	LoadPurchaseInvoices(ctx context.Context) []core.PurchaseInvoice
	LoadGRNs(ctx context.Context) []core.GRN
	LoadPurchaseReturns(ctx context.Context) []core.PurchaseReturn
	LoadExpenses(ctx context.Context) []core.Expense
	LoadVouchers(ctx context.Context, kind core.VoucherKind) []core.Voucher

	// LoadAll loads every resource concurrently and reports their state.
	LoadAll(ctx context.Context) []store.Status

	// Refresh re-fetches one resource even if it is already loaded.
	Refresh(ctx context.Context, resource string) error

	CreateProduct(ctx context.Context, item core.InventoryItem) (core.InventoryItem, error)
	UpdateProduct(ctx context.Context, id string, item core.InventoryItem) (core.InventoryItem, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateCustomer(ctx context.Context, p core.Party) (core.Party, error)
	UpdateCustomer(ctx context.Context, id string, p core.Party) (core.Party, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateSupplier(ctx context.Context, p core.Party) (core.Party, error)
	UpdateSupplier(ctx context.Context, id string, p core.Party) (core.Party, error)
	DeleteSupplier(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, id string, c core.Category) (core.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// CreateSale records a sale and takes the sold quantities out of stock.
	CreateSale(ctx context.Context, s core.Sale) (*SaleResult, error)
	UpdateSale(ctx context.Context, key string, s core.Sale) (core.Sale, error)
	DeleteSale(ctx context.Context, key string) error

	CreateQuotation(ctx context.Context, q core.Quotation) (core.Quotation, error)
	UpdateQuotation(ctx context.Context, key string, q core.Quotation) (core.Quotation, error)
	DeleteQuotation(ctx context.Context, key string) error

	// ImportQuotation turns an open quotation into a new sale and marks the
	// quotation converted.
	ImportQuotation(ctx context.Context, req ImportQuotationRequest) (*ImportResult, error)

	// CreatePurchaseOrder records an order and adds its quantities to stock.
	CreatePurchaseOrder(ctx context.Context, p core.PurchaseOrder) (*PurchaseOrderResult, error)
	UpdatePurchaseOrder(ctx context.Context, key string, p core.PurchaseOrder) (core.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, key string) error

	// CreatePurchaseInvoice records a supplier invoice and adds its quantities to stock.
	CreatePurchaseInvoice(ctx context.Context, p core.PurchaseInvoice) (*PurchaseInvoiceResult, error)
	UpdatePurchaseInvoice(ctx context.Context, key string, p core.PurchaseInvoice) (core.PurchaseInvoice, error)
	DeletePurchaseInvoice(ctx context.Context, key string) error

	// CreateGRN records received goods into stock and, when linked, into the
	// purchase order's received quantities.
	CreateGRN(ctx context.Context, g core.GRN) (*GRNResult, error)

	// CreatePurchaseReturn records a return and applies its local effects.
	// An effect that could not be applied is reported, not returned as an error.
	CreatePurchaseReturn(ctx context.Context, r core.PurchaseReturn) (*PurchaseReturnResult, error)
	UpdatePurchaseReturn(ctx context.Context, key string, r core.PurchaseReturn) (core.PurchaseReturn, error)
	DeletePurchaseReturn(ctx context.Context, key string) error

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, key string, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, key string) error

	CreateVoucher(ctx context.Context, v core.Voucher) (core.Voucher, error)
	UpdateVoucher(ctx context.Context, key string, v core.Voucher) (core.Voucher, error)
	DeleteVoucher(ctx context.Context, kind core.VoucherKind, key string) error

	// NextNumber returns the next business key of series from the loaded
	// collection. Nothing is reserved on the backend.
	NextNumber(ctx context.Context, series core.Series) string

	// StockLevels returns inventory with the items at or below minimum level.
	StockLevels(ctx context.Context) *StockResult

	// ProfitAndLoss computes the P&L statement for a period.
	ProfitAndLoss(ctx context.Context, req ProfitAndLossRequest) (*report.ProfitAndLoss, error)
}
