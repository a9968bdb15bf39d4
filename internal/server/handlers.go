package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/itemstore"
	"github.com/muurk/shoplist/internal/logging"
)

// ItemsHandler serves a Store as a REST collection and publishes every
// mutation to the hub.
type ItemsHandler struct {
	store itemstore.Store
	hub   *Hub
}

// NewItemsHandler creates a handler over store. hub may be nil.
func NewItemsHandler(store itemstore.Store, hub *Hub) *ItemsHandler {
	return &ItemsHandler{store: store, hub: hub}
}

// RegisterRoutes mounts the collection on r.
func (h *ItemsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})
}

func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	records := make([]itemstore.Record, 0, len(items))
	for _, it := range items {
		records = append(records, itemstore.NewRecord(it))
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *ItemsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	it, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemstore.NewRecord(it))
}

func (h *ItemsHandler) create(w http.ResponseWriter, r *http.Request) {
	it, ok := decodeItem(w, r)
	if !ok {
		return
	}

	d := item.Draft{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
	if err := d.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.store.Create(r.Context(), d)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.publish(EventCreated, created)
	writeJSON(w, http.StatusCreated, itemstore.NewRecord(created))
}

func (h *ItemsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	it, ok := decodeItem(w, r)
	if !ok {
		return
	}
	it.ID = id

	if errs := item.Validate(it); len(errs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, errors.Join(errs...).Error())
		return
	}

	updated, err := h.store.Update(r.Context(), it)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.publish(EventUpdated, updated)
	writeJSON(w, http.StatusOK, itemstore.NewRecord(updated))
}

func (h *ItemsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	h.publish(EventDeleted, item.Item{ID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemsHandler) publish(kind string, it item.Item) {
	if h.hub != nil {
		h.hub.Publish(NewEvent(kind, it))
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

func decodeItem(w http.ResponseWriter, r *http.Request) (item.Item, bool) {
	var rec itemstore.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return item.Item{}, false
	}
	it, err := rec.Item()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price: "+err.Error())
		return item.Item{}, false
	}
	return it, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if itemstore.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	logging.Error("Store operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}
