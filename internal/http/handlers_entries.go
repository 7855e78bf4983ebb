package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ledger/internal/core"
	"ledger/internal/services"
)

type createEntryRequest struct {
	Date     string          `json:"date"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Type     string          `json:"type"`
}

// amountString accepts the amount both as a JSON number and as a string.
func (req createEntryRequest) amountString() string {
	return strings.Trim(string(req.Amount), `"`)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	var rng *core.DateRange

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr != "" || toStr != "" {
		if fromStr == "" || toStr == "" {
			writeError(w, http.StatusBadRequest, "from and to must be provided together")
			return
		}
		from, err := core.ParseDate(fromStr)
		if err != nil {
			handleDomainError(w, r, fmt.Errorf("from: %w", err))
			return
		}
		to, err := core.ParseDate(toStr)
		if err != nil {
			handleDomainError(w, r, fmt.Errorf("to: %w", err))
			return
		}
		rng = &core.DateRange{From: from, To: to}
	}

	items, err := s.entries.List(r.Context(), rng)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []core.Transaction{}
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	tx, err := s.entries.Create(r.Context(), services.CreateEntryInput{
		Date:     req.Date,
		Amount:   req.amountString(),
		Category: req.Category,
		Type:     req.Type,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	s.analyticsCache.Clear()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.entries.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}

	s.analyticsCache.Clear()
	w.WriteHeader(http.StatusNoContent)
}
