package web

import (
	"context"
	"net/http"
	"strconv"

	"erp-sync/internal/core"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"

	"github.com/go-chi/chi/v5"
)

// status handles GET /api/status.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Store().Status())
}

// loadAll handles POST /api/load.
func (h *Handler) loadAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.LoadAll(r.Context()))
}

// listResource handles GET /api/resources/{resource}. The resource is
// loaded on first use; afterwards the cached records are returned.
func (h *Handler) listResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	items, ok := h.load(r.Context(), name)
	if !ok {
		writeError(w, r, "unknown resource "+name, "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, items)
}

func (h *Handler) load(ctx context.Context, name string) (any, bool) {
	switch name {
	case store.ResInventory:
		return h.svc.LoadInventory(ctx), true
	case store.ResCustomers:
		return h.svc.LoadCustomers(ctx), true
	case store.ResSuppliers:
		return h.svc.LoadSuppliers(ctx), true
	case store.ResCategories:
		return h.svc.LoadCategories(ctx), true
	case store.ResSales:
		return h.svc.LoadSales(ctx), true
	case store.ResQuotations:
		return h.svc.LoadQuotations(ctx), true
	case store.ResPurchaseOrders:
		return h.svc.LoadPurchaseOrders(ctx), true
	case store.ResPurchaseInvoices:
		return h.svc.LoadPurchaseInvoices(ctx), true
	case store.ResGRNs:
		return h.svc.LoadGRNs(ctx), true
	case store.ResPurchaseReturns:
		return h.svc.LoadPurchaseReturns(ctx), true
	case store.ResExpenses:
		return h.svc.LoadExpenses(ctx), true
	case store.ResReceiptVouchers:
		return h.svc.LoadVouchers(ctx, core.ReceiptVoucher), true
	case store.ResPaymentVouchers:
		return h.svc.LoadVouchers(ctx, core.PaymentVoucher), true
	}
	return nil, false
}

// refreshResource handles POST /api/resources/{resource}/refresh.
func (h *Handler) refreshResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	if err := h.svc.Refresh(r.Context(), name); err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	items, _ := h.load(r.Context(), name)
	writeJSON(w, items)
}

// actions handles GET /api/actions?after=N.
func (h *Handler) actions(w http.ResponseWriter, r *http.Request) {
	after, ok := afterParam(w, r)
	if !ok {
		return
	}
	actions := h.svc.Store().Journal.Actions(after)
	if actions == nil {
		actions = []store.Action{}
	}
	writeJSON(w, actions)
}

// notifications handles GET /api/notifications?after=N.
func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	after, ok := afterParam(w, r)
	if !ok {
		return
	}
	notes := []notify.Notification{}
	if h.notes != nil {
		if got := h.notes.After(after); got != nil {
			notes = got
		}
	}
	writeJSON(w, notes)
}

func afterParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	v := r.URL.Query().Get("after")
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		writeError(w, r, "after must be a non-negative integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// nextNumber handles GET /api/next-number/{series}.
func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "series")
	series, ok := core.AllSeries[name]
	if !ok {
		writeError(w, r, "unknown series "+name, "NOT_FOUND", http.StatusNotFound)
		return
	}
	type response struct {
		Series string `json:"series"`
		Next   string `json:"next"`
	}
	writeJSON(w, response{Series: name, Next: h.svc.NextNumber(r.Context(), series)})
}

// schema handles GET /api/schema/{resource}.
func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	s, err := core.Schema(chi.URLParam(r, "resource"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, s)
}
