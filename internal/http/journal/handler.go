package journal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/journal"
)

type Handler struct {
	svc *journal.Service
}

func NewHandler(svc *journal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/journal-entries", h.list)
	r.With(middleware.AllowContentType("application/json")).Post("/journal-entries", h.create)
	r.Get("/journal-entries/{id}", h.get)
	r.Post("/journal-entries/{id}/reverse", h.reverse)
}

type createLineRequest struct {
	AccountID   *uuid.UUID      `json:"accountId,omitempty"`
	AccountCode string          `json:"accountCode,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

type createEntryRequest struct {
	EntryDate     time.Time             `json:"entryDate"`
	Description   string                `json:"description,omitempty"`
	ReferenceType journal.ReferenceType `json:"referenceType,omitempty"`
	ReferenceID   *uuid.UUID            `json:"referenceId,omitempty"`
	Lines         []createLineRequest   `json:"lines"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Entries created through the API without an originating business
	// event are operator entries.
	if req.ReferenceType == "" {
		req.ReferenceType = journal.RefManual
	}

	lines := make([]journal.LineParams, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = journal.LineParams{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}

	entry, err := h.svc.Post(r.Context(), journal.PostParams{
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Lines:         lines,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := journal.ListFilter{}

	if s := r.URL.Query().Get("startDate"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("endDate"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	if s := r.URL.Query().Get("referenceType"); s != "" {
		rt := journal.ReferenceType(s)
		filter.ReferenceType = &rt
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) reverse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	mirror, err := h.svc.Reverse(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(mirror)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var unbalanced *journal.UnbalancedError

	switch {
	case errors.As(err, &unbalanced):
		// The UI shows the imbalance amount inline.
		http.Error(w, unbalanced.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, journal.ErrTooFewLines),
		errors.Is(err, journal.ErrBothSides),
		errors.Is(err, journal.ErrNegativeAmount),
		errors.Is(err, journal.ErrInvalidReference),
		errors.Is(err, journal.ErrAccountInactive):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, journal.ErrNotFound),
		errors.Is(err, journal.ErrAccountNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, journal.ErrNotPosted),
		errors.Is(err, journal.ErrAlreadyReversed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
