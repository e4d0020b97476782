package app

import "erp-sync/internal/core"

// SaleResult is returned by CreateSale.
type SaleResult struct {
	Sale  core.Sale
	Stock core.StockResult
}

// ImportResult is returned by ImportQuotation.
type ImportResult struct {
	Sale      core.Sale
	Quotation core.Quotation
	Stock     core.StockResult
	// QuotationSynced is false when the sale was created but the quotation
	// could not be marked converted on the backend.
	QuotationSynced bool
}

// PurchaseOrderResult is returned by CreatePurchaseOrder.
type PurchaseOrderResult struct {
	Order core.PurchaseOrder
	Stock core.StockResult
}

// PurchaseInvoiceResult is returned by CreatePurchaseInvoice.
type PurchaseInvoiceResult struct {
	Invoice core.PurchaseInvoice
	Stock   core.StockResult
}

// GRNResult is returned by CreateGRN.
type GRNResult struct {
	GRN   core.GRN
	Stock core.StockResult
	// Order is the linked purchase order after receipt, nil when the GRN is
	// not linked or the order is not in the store.
	Order *core.PurchaseOrder
}

// PurchaseReturnResult is returned by CreatePurchaseReturn.
type PurchaseReturnResult struct {
	Return core.PurchaseReturn
	Effect core.ReturnEffect
}

// StockResult is returned by StockLevels.
type StockResult struct {
	Items []core.InventoryItem
	Low   []core.InventoryItem
}
