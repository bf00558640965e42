package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
	"github.com/lehigh-university-libraries/coverscan/internal/models"
	"github.com/lehigh-university-libraries/coverscan/internal/render"
)

type bookResponse struct {
	ISBN   string             `json:"isbn"`
	Found  bool               `json:"found"`
	Record *models.BookRecord `json:"record,omitempty"`
	Card   render.Card        `json:"card"`
}

// HandleLookup resolves an ISBN outside any scanner session
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")

	record, found, err := h.catalog.LookupByISBN(r.Context(), isbn)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, catalog.ErrEmptyISBN) {
			code = http.StatusBadRequest
		}
		h.writeError(w, err.Error(), code)
		return
	}

	if !found {
		h.writeJSONStatus(w, http.StatusNotFound, bookResponse{ISBN: isbn, Card: render.NotFound(isbn)})
		return
	}

	h.writeJSON(w, bookResponse{ISBN: isbn, Found: true, Record: record, Card: render.Book(record)})
}
