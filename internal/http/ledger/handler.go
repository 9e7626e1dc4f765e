package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes is mounted inside the /accounts route group.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/ledger", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var startDate, endDate *time.Time

	if s := r.URL.Query().Get("startDate"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			startDate = &t
		}
	}

	if s := r.URL.Query().Get("endDate"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			endDate = &t
		}
	}

	l, err := h.svc.AccountLedger(r.Context(), id, startDate, endDate)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(l)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type ledgerLineResponse struct {
	EntryID        uuid.UUID   `json:"entryId"`
	EntryNumber    string      `json:"entryNumber"`
	EntryDate      string      `json:"entryDate"`
	Description    string      `json:"description,omitempty"`
	ReferenceType  string      `json:"referenceType,omitempty"`
	ReferenceID    *uuid.UUID  `json:"referenceId,omitempty"`
	Debit          json.Number `json:"debit"`
	Credit         json.Number `json:"credit"`
	RunningBalance json.Number `json:"runningBalance"`
}

type ledgerResponse struct {
	AccountID      uuid.UUID            `json:"accountId"`
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	AccountType    string               `json:"accountType"`
	StartDate      string               `json:"startDate,omitempty"`
	EndDate        string               `json:"endDate,omitempty"`
	OpeningBalance json.Number          `json:"openingBalance"`
	ClosingBalance json.Number          `json:"closingBalance"`
	Lines          []ledgerLineResponse `json:"lines"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toResponse(l *ledger.AccountLedger) ledgerResponse {
	lines := make([]ledgerLineResponse, len(l.Lines))
	for i, line := range l.Lines {
		lines[i] = ledgerLineResponse{
			EntryID:        line.EntryID,
			EntryNumber:    line.EntryNumber,
			EntryDate:      line.EntryDate.Format(time.DateOnly),
			Description:    line.Description,
			ReferenceType:  string(line.ReferenceType),
			ReferenceID:    line.ReferenceID,
			Debit:          amount(line.Debit),
			Credit:         amount(line.Credit),
			RunningBalance: amount(line.RunningBalance),
		}
	}

	resp := ledgerResponse{
		AccountID:      l.AccountID,
		AccountCode:    l.AccountCode,
		AccountName:    l.AccountName,
		AccountType:    string(l.AccountType),
		OpeningBalance: amount(l.OpeningBalance),
		ClosingBalance: amount(l.ClosingBalance),
		Lines:          lines,
	}

	if l.StartDate != nil {
		resp.StartDate = l.StartDate.Format(time.DateOnly)
	}

	if l.EndDate != nil {
		resp.EndDate = l.EndDate.Format(time.DateOnly)
	}

	return resp
}
