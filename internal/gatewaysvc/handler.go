// HTTP surface for the gateway: the core transfer/balance endpoints plus a
// handful of read-only listings (accounts, ledger entries, notifications,
// idempotency keys) implemented as thin pass-throughs over the store
// package. Routing uses gorilla/mux; every route except /metrics itself is
// wrapped with promauto request-count and latency metrics.
package gatewaysvc

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgercore_gateway_http_requests_total",
		Help: "Total HTTP requests handled by the gateway, by route and status.",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledgercore_gateway_http_request_duration_seconds",
		Help:    "HTTP request latency observed by the gateway.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

type Handler struct {
	svc *Service
	db  store.Querier
	log *zap.SugaredLogger
}

func NewHandler(svc *Service, db store.Querier, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, db: db, log: log}
}

// Router builds the gateway's HTTP mux, instrumenting every route except
// /metrics with the request-count and latency metrics above.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.instrument("/health", h.handleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/transfer", h.instrument("/transfer", h.handleTransfer)).Methods(http.MethodPost)
	r.HandleFunc("/balance/{account_id}", h.instrument("/balance", h.handleBalance)).Methods(http.MethodGet)
	r.HandleFunc("/accounts", h.instrument("/accounts", h.handleListAccounts)).Methods(http.MethodGet)
	r.HandleFunc("/ledger_entries", h.instrument("/ledger_entries", h.handleListEntries)).Methods(http.MethodGet)
	r.HandleFunc("/notifications", h.instrument("/notifications", h.handleListNotifications)).Methods(http.MethodGet)
	r.HandleFunc("/idempotency_keys", h.instrument("/idempotency_keys", h.handleListIdempotencyKeys)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (h *Handler) instrument(route string, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(route, http.StatusText(sw.status)).Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	resp, err := h.svc.Transfer(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrIdempotencyMismatch):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrLockConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Errorw("transfer failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account_id"]
	resp, err := h.svc.GetBalance(r.Context(), accountID)
	if err != nil {
		h.log.Errorw("get balance failed", "account_id", accountID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := store.ListAccounts(r.Context(), h.db)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := store.GetAllEntries(r.Context(), h.db)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := store.ListNotifications(r.Context(), h.db)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// idempotencyKeyView mirrors store.IdempotencyRecord but carries the stored
// response as json.RawMessage instead of []byte, so the client's original
// TransferResponse renders verbatim instead of as a base64 string.
type idempotencyKeyView struct {
	Key       string          `json:"key"`
	Status    string          `json:"status"`
	TxID      *string         `json:"tx_id"`
	Response  json.RawMessage `json:"response"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func (h *Handler) handleListIdempotencyKeys(w http.ResponseWriter, r *http.Request) {
	records, err := store.ListIdempotencyRecords(r.Context(), h.db)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	views := make([]idempotencyKeyView, len(records))
	for i, rec := range records {
		views[i] = idempotencyKeyView{
			Key:       rec.Key,
			Status:    rec.Status,
			TxID:      rec.TxID,
			Response:  rec.ResponseBody,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
			UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
