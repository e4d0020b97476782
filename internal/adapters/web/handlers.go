package web

import (
	"errors"
	"io"
	"net/http"

	"erp-sync/internal/app"
	"erp-sync/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Handler holds the ApplicationService, the chi router and the submit lock
// shared by the form endpoints.
type Handler struct {
	svc    app.ApplicationService
	notes  *notify.Recorder
	submit *app.SubmitLock
	log    zerolog.Logger
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes. notes may be
// nil, in which case the notifications endpoint returns an empty list.
func NewHandler(svc app.ApplicationService, notes *notify.Recorder, allowedOrigins []string, log zerolog.Logger) http.Handler {
	return newHandler(svc, notes, allowedOrigins, log).router
}

func newHandler(svc app.ApplicationService, notes *notify.Recorder, allowedOrigins []string, log zerolog.Logger) *Handler {
	h := &Handler{
		svc:    svc,
		notes:  notes,
		submit: app.NewSubmitLock(),
		log:    log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20))

	r.Get("/api/health", h.health)

	// ── Store inspection ─────────────────────────────────────────────────────
	r.Get("/api/status", h.status)
	r.Post("/api/load", h.loadAll)
	r.Get("/api/resources/{resource}", h.listResource)
	r.Post("/api/resources/{resource}/refresh", h.refreshResource)
	r.Get("/api/actions", h.actions)
	r.Get("/api/notifications", h.notifications)
	r.Get("/api/next-number/{series}", h.nextNumber)
	r.Get("/api/schema/{resource}", h.schema)

	// ── Reports ──────────────────────────────────────────────────────────────
	r.Get("/api/stock", h.stock)
	r.Get("/api/reports/pl", h.profitAndLoss)

	// ── Form submissions (one in flight per form) ────────────────────────────
	r.Post("/api/sales", h.createSale)
	r.Post("/api/quotations", h.createQuotation)
	r.Post("/api/quotations/{number}/import", h.importQuotation)
	r.Post("/api/purchase-orders", h.createPurchaseOrder)
	r.Post("/api/purchase-invoices", h.createPurchaseInvoice)
	r.Post("/api/grns", h.createGRN)
	r.Post("/api/purchase-returns", h.createPurchaseReturn)
	r.Post("/api/expenses", h.createExpense)
	r.Post("/api/vouchers/{kind}", h.createVoucher)

	h.router = r
	return h
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// readDocument reads the request body as JSON and returns it parsed. It
// returns false and writes an error response on failure: HTTP 413 when the
// body exceeds the size limit, HTTP 400 for anything that is not a JSON
// object.
func readDocument(w http.ResponseWriter, r *http.Request) (gjson.Result, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return gjson.Result{}, false
		}
		writeError(w, r, "could not read body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(body) {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return gjson.Result{}, false
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		writeError(w, r, "body must be a JSON object", "BAD_REQUEST", http.StatusBadRequest)
		return gjson.Result{}, false
	}
	return doc, true
}

// guard claims the submit lock for form. It returns nil and writes HTTP 409
// when a submission of the same form is already running.
func (h *Handler) guard(w http.ResponseWriter, r *http.Request, form string) func() {
	release, ok := h.submit.TryAcquire(form)
	if !ok {
		writeError(w, r, form+" submission already in progress", "SUBMIT_IN_PROGRESS", http.StatusConflict)
		return nil
	}
	return release
}
