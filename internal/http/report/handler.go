package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openledgerhq/ledgerd/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes is mounted inside the /accounting route group.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/income-statement", h.incomeStatement)
	r.Get("/balance-sheet", h.balanceSheet)
	r.Get("/trial-balance", h.trialBalance)
}

func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDate(w, r, "startDate")
	if !ok {
		return
	}

	end, ok := parseDate(w, r, "endDate")
	if !ok {
		return
	}

	stmt, err := h.svc.IncomeStatement(r.Context(), start, end)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toIncomeStatementResponse(stmt))
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseDate(w, r, "asOfDate")
	if !ok {
		return
	}

	sheet, err := h.svc.BalanceSheet(r.Context(), asOf)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toBalanceSheetResponse(sheet))
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseDate(w, r, "asOfDate")
	if !ok {
		return
	}

	tb, err := h.svc.TrialBalance(r.Context(), asOf)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toTrialBalanceResponse(tb))
}

func parseDate(w http.ResponseWriter, r *http.Request, param string) (time.Time, bool) {
	s := r.URL.Query().Get(param)
	if s == "" {
		http.Error(w, param+" is required", http.StatusBadRequest)
		return time.Time{}, false
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return time.Time{}, false
	}

	return t, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
