package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"estate-go/internal/catalog"
	"estate-go/internal/form"
	"estate-go/internal/pricefmt"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type handlers struct {
	catalog   Catalog
	formatter *pricefmt.Formatter
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /properties?q=&type=&sort=
func (h *handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	props, err := h.catalog.Search(q.Get("q"), q.Get("type"), q.Get("sort"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.list(props))
}

// POST /properties
func (h *handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	values, err := decodeBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.catalog.AddProperty(values)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.save(w, r) {
		return
	}
	loggerFrom(r.Context()).Info("property created", "id", p.ID)
	respondWithJSON(w, http.StatusCreated, toResponse(p, false, h.formatter))
}

// GET /properties/{id}
func (h *handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.catalog.GetProperty(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toResponse(p, h.catalog.IsFavorite(id), h.formatter))
}

// PATCH /properties/{id}
func (h *handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	values, err := decodeBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.catalog.UpdateProperty(id, values)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.save(w, r) {
		return
	}
	respondWithJSON(w, http.StatusOK, toResponse(p, h.catalog.IsFavorite(id), h.formatter))
}

// DELETE /properties/{id}
func (h *handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProperty(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.save(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /properties/{id}/favorite
func (h *handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	on, err := h.catalog.ToggleFavorite(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.save(w, r) {
		return
	}
	respondWithJSON(w, http.StatusOK, FavoriteResponse{ID: id, Favorite: on})
}

// GET /favorites
func (h *handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs := h.catalog.Favorites()
	resp := ListResponse{Data: make([]PropertyResponse, len(favs)), Total: len(favs)}
	for i, p := range favs {
		resp.Data[i] = toResponse(p, true, h.formatter)
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// GET /stats
func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Stats())
}

func (h *handlers) list(props []catalog.Property) ListResponse {
	resp := ListResponse{Data: make([]PropertyResponse, len(props)), Total: len(props)}
	for i, p := range props {
		resp.Data[i] = toResponse(p, h.catalog.IsFavorite(p.ID), h.formatter)
	}
	return resp
}

// save persists a mutation. It writes the error response and returns false
// on failure. A failed save leaves the change applied in memory and pending,
// so the next successful save or the save on shutdown writes it.
func (h *handlers) save(w http.ResponseWriter, r *http.Request) bool {
	if err := h.catalog.Save(); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request) (form.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, &catalog.ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	return toValues(body)
}

// writeError maps domain errors to HTTP statuses. Unexpected errors are
// logged and reported without detail.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		writeJSONError(w, http.StatusBadRequest, verr.Error())
	default:
		loggerFrom(r.Context()).Error("request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
