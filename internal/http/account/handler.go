package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openledgerhq/ledgerd/internal/account"
)

// ResetConfirmation is the phrase a client must echo back before the
// destructive bulk reset runs. The admin UI gates this behind a
// double-confirmation dialog.
const ResetConfirmation = "RESET ALL BALANCES"

type Handler struct {
	svc *account.Service
}

func NewHandler(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createAccountRequest struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	AccountType account.Type `json:"accountType"`
	Category    string       `json:"category"`
	ParentID    *uuid.UUID   `json:"parentId"`
	Description string       `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Code == "" || req.Name == "" {
		http.Error(w, "code and name are required", http.StatusBadRequest)
		return
	}

	a, err := h.svc.Create(r.Context(), account.CreateParams{
		Code:        req.Code,
		Name:        req.Name,
		Type:        req.AccountType,
		Category:    req.Category,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(a)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := account.ListFilter{
		ActiveOnly: r.URL.Query().Get("activeOnly") == "true",
		ParentOnly: r.URL.Query().Get("parentOnly") == "true",
	}

	accounts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(accounts)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(a)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateAccountRequest struct {
	Name        *string       `json:"name,omitempty"`
	AccountType *account.Type `json:"accountType,omitempty"`
	Category    *string       `json:"category,omitempty"`
	ParentID    *uuid.UUID    `json:"parentId,omitempty"`
	Description *string       `json:"description,omitempty"`
	IsActive    *bool         `json:"isActive,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.Update(r.Context(), id, account.UpdateParams{
		Name:        req.Name,
		Type:        req.AccountType,
		Category:    req.Category,
		ParentID:    req.ParentID,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(a)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type resetRequest struct {
	Confirm string `json:"confirm"`
}

// Reset handles the destructive bulk reset. Mounted by the router under
// /accounting/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Confirm != ResetConfirmation {
		http.Error(w, "reset requires confirmation", http.StatusBadRequest)
		return
	}

	if err := h.svc.ResetAllBalances(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
	case errors.Is(err, account.ErrInvalidType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, account.ErrDuplicateCode),
		errors.Is(err, account.ErrSystemAccount),
		errors.Is(err, account.ErrInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
