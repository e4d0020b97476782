package api

import (
	"erp-sync/internal/core"
)

// Endpoint describes one backend resource and how its records are
// addressed for update and delete.
//
// Masters (products, parties, categories) are addressed directly by backend
// id through IDRoute. Documents are addressed by business key: each
// NumberRoutes entry is tried in order, then the QueryParam form on Path,
// then the collection is fetched, the record located by business key and
// IDRoute used with its backend id.
type Endpoint struct {
	Name         string
	Path         string
	NumberRoutes []string
	QueryParam   string
	IDRoute      string
	KeyField     string
}

// ByNumber reports whether records are addressed by business key.
func (e Endpoint) ByNumber() bool { return len(e.NumberRoutes) > 0 || e.QueryParam != "" }

// Addressable reports whether the backend accepts updates and deletes.
func (e Endpoint) Addressable() bool { return e.ByNumber() || e.IDRoute != "" }

var (
	Products = Endpoint{Name: "products", Path: "/products", IDRoute: "/products/%s"}

	Customers = Endpoint{Name: "customers", Path: "/customers", IDRoute: "/customers/%s"}

	Suppliers = Endpoint{Name: "suppliers", Path: "/suppliers", IDRoute: "/suppliers/%s"}

	Categories = Endpoint{Name: "categories", Path: "/categories", IDRoute: "/categories/%s"}

	Sales = Endpoint{
		Name:         "sales",
		Path:         "/sale-invoice",
		NumberRoutes: []string{"/sale-invoice/%s", "/sale-invoice/number/%s"},
		QueryParam:   "invoiceNumber",
		IDRoute:      "/sale-invoice/id/%s",
		KeyField:     core.NumberField(core.SeriesSale),
	}

	Quotations = Endpoint{
		Name:         "quotations",
		Path:         "/quotations",
		NumberRoutes: []string{"/quotations/number/%s"},
		QueryParam:   "quotationNumber",
		IDRoute:      "/quotations/%s",
		KeyField:     core.NumberField(core.SeriesQuotation),
	}

	PurchaseOrders = Endpoint{
		Name:         "purchase-orders",
		Path:         "/purchaseorder",
		NumberRoutes: []string{"/purchaseorder/%s"},
		QueryParam:   "poNumber",
		IDRoute:      "/purchases/%s",
		KeyField:     core.NumberField(core.SeriesPurchaseOrder),
	}

	PurchaseInvoices = Endpoint{
		Name:         "purchase-invoices",
		Path:         "/purchase-invoice",
		NumberRoutes: []string{"/purchase-invoice/%s"},
		IDRoute:      "/purchase-invoice/id/%s",
		KeyField:     core.NumberField(core.SeriesPurchaseInvoice),
	}

	// GRNs are append-only on the backend.
	GRNs = Endpoint{Name: "grns", Path: "/grns", KeyField: core.NumberField(core.SeriesGRN)}

	PurchaseReturns = Endpoint{
		Name:         "purchase-returns",
		Path:         "/purchase-returns",
		NumberRoutes: []string{"/purchase-returns/%s"},
		IDRoute:      "/purchase-returns/id/%s",
		KeyField:     core.NumberField(core.SeriesPurchaseReturn),
	}

	Expenses = Endpoint{
		Name:         "expenses",
		Path:         "/expenses",
		NumberRoutes: []string{"/expenses/%s"},
		KeyField:     core.NumberField(core.SeriesExpense),
	}

	// The receipt path is misspelled on the backend.
	ReceiptVouchers = Endpoint{
		Name:         "receipt-vouchers",
		Path:         "/reciept-voucher",
		NumberRoutes: []string{"/reciept-voucher/%s"},
		KeyField:     core.NumberField(core.SeriesReceiptVoucher),
	}

	PaymentVouchers = Endpoint{
		Name:         "payment-vouchers",
		Path:         "/payment-voucher",
		NumberRoutes: []string{"/payment-voucher/%s"},
		KeyField:     core.NumberField(core.SeriesPaymentVoucher),
	}
)
