package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openledgerhq/ledgerd/internal/importer"
)

const maxUploadSize = 10 << 20 // 10 MiB

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/journal", h.importJournal)
}

type rowErrorDTO struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type importResponse struct {
	Posted       int                   `json:"posted"`
	EntryNumbers []string              `json:"entryNumbers"`
	RowErrors    []rowErrorDTO         `json:"rowErrors,omitempty"`
	Failed       []importer.EntryError `json:"failed,omitempty"`
}

func (h *Handler) importJournal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		Posted: len(result.Posted),
		Failed: result.Failed,
	}

	for _, e := range result.Posted {
		resp.EntryNumbers = append(resp.EntryNumbers, e.EntryNumber)
	}

	for _, re := range result.RowErrors {
		resp.RowErrors = append(resp.RowErrors, rowErrorDTO{Line: re.Line, Error: re.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
