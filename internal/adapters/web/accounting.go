package web

import (
	"bytes"
	"net/http"

	"erp-sync/internal/app"
	"erp-sync/internal/report"
)

// stock handles GET /api/stock. ?low=true returns only items at or below
// their minimum level.
func (h *Handler) stock(w http.ResponseWriter, r *http.Request) {
	res := h.svc.StockLevels(r.Context())
	if r.URL.Query().Get("low") == "true" {
		writeJSON(w, res.Low)
		return
	}
	writeJSON(w, res)
}

// profitAndLoss handles GET /api/reports/pl?from=&to=&format=xlsx.
func (h *Handler) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pl, err := h.svc.ProfitAndLoss(r.Context(), app.ProfitAndLossRequest{From: q.Get("from"), To: q.Get("to")})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if q.Get("format") != "xlsx" {
		writeJSON(w, pl)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, *pl); err != nil {
		h.log.Error().Err(err).Msg("write P&L xlsx")
		writeError(w, r, "could not build spreadsheet", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="profit-and-loss.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}
