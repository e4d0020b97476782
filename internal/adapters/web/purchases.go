package web

import (
	"net/http"

	"erp-sync/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

// submitForm runs one guarded form submission: it claims the form, decodes the
// body and writes 201 with the result of create.
func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request, form string, create func(doc gjson.Result) (any, error)) {
	release := h.guard(w, r, form)
	if release == nil {
		return
	}
	defer release()

	doc, ok := readDocument(w, r)
	if !ok {
		return
	}
	res, err := create(doc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}

// createPurchaseOrder handles POST /api/purchase-orders.
func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, "purchase-order", func(doc gjson.Result) (any, error) {
		return h.svc.CreatePurchaseOrder(r.Context(), core.DecodePurchaseOrder(doc))
	})
}

// createPurchaseInvoice handles POST /api/purchase-invoices.
func (h *Handler) createPurchaseInvoice(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, "purchase-invoice", func(doc gjson.Result) (any, error) {
		return h.svc.CreatePurchaseInvoice(r.Context(), core.DecodePurchaseInvoice(doc))
	})
}

// createGRN handles POST /api/grns.
func (h *Handler) createGRN(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, "grn", func(doc gjson.Result) (any, error) {
		return h.svc.CreateGRN(r.Context(), core.DecodeGRN(doc))
	})
}

// createPurchaseReturn handles POST /api/purchase-returns.
func (h *Handler) createPurchaseReturn(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, "purchase-return", func(doc gjson.Result) (any, error) {
		return h.svc.CreatePurchaseReturn(r.Context(), core.DecodePurchaseReturn(doc))
	})
}

// createExpense handles POST /api/expenses.
func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	h.submitForm(w, r, "expense", func(doc gjson.Result) (any, error) {
		return h.svc.CreateExpense(r.Context(), core.DecodeExpense(doc))
	})
}

// createVoucher handles POST /api/vouchers/{kind}, kind being receipt or payment.
func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	kind := core.VoucherKind(chi.URLParam(r, "kind"))
	if kind != core.ReceiptVoucher && kind != core.PaymentVoucher {
		writeError(w, r, "voucher kind must be receipt or payment", "NOT_FOUND", http.StatusNotFound)
		return
	}
	h.submitForm(w, r, string(kind)+"-voucher", func(doc gjson.Result) (any, error) {
		return h.svc.CreateVoucher(r.Context(), core.DecodeVoucher(kind)(doc))
	})
}
