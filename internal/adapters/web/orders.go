package web

import (
	"net/http"

	"erp-sync/internal/app"
	"erp-sync/internal/core"

	"github.com/go-chi/chi/v5"
)

// createSale handles POST /api/sales. The body is read through the same
// adapter as backend records, so any accepted field spelling works.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	release := h.guard(w, r, "sale")
	if release == nil {
		return
	}
	defer release()

	doc, ok := readDocument(w, r)
	if !ok {
		return
	}
	res, err := h.svc.CreateSale(r.Context(), core.DecodeSale(doc))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}

// createQuotation handles POST /api/quotations.
func (h *Handler) createQuotation(w http.ResponseWriter, r *http.Request) {
	release := h.guard(w, r, "quotation")
	if release == nil {
		return
	}
	defer release()

	doc, ok := readDocument(w, r)
	if !ok {
		return
	}
	q, err := h.svc.CreateQuotation(r.Context(), core.DecodeQuotation(doc))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, q)
}

// importQuotation handles POST /api/quotations/{number}/import. An optional
// {"date": "YYYY-MM-DD"} body sets the sale date.
func (h *Handler) importQuotation(w http.ResponseWriter, r *http.Request) {
	release := h.guard(w, r, "sale")
	if release == nil {
		return
	}
	defer release()

	req := app.ImportQuotationRequest{QuotationNumber: chi.URLParam(r, "number")}
	if r.ContentLength > 0 {
		doc, ok := readDocument(w, r)
		if !ok {
			return
		}
		req.Date = doc.Get("date").String()
	}

	res, err := h.svc.ImportQuotation(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}
