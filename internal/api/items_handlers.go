package api

import (
	"net/http"

	"github.com/jbweber/homelab/items/internal/mapper"
)

// createItemHandler handles POST /v1/base.
//
// Request: JSON body with "name" (required) and "description".
// Response: 201 Created with the stored item, 400 when the name is missing.
func (a *API) createItemHandler(w http.ResponseWriter, r *http.Request) {
	var req mapper.ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	created, err := a.items.Create(r.Context(), mapper.ToEntity(req))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, a.logger, http.StatusCreated, mapper.ToResponse(created))
}

// getItemHandler handles GET /v1/base/{id}.
func (a *API) getItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	item, err := a.items.FindByID(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, a.logger, http.StatusOK, mapper.ToResponse(item))
}

// updateItemHandler handles PUT /v1/base/{id}.
//
// Only non-empty fields of the body replace stored values; the rest are kept.
// Response: 200 OK with the updated item, 404 if the item does not exist.
func (a *API) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var req mapper.ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	existing, err := a.items.FindByID(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	updated, err := a.items.Update(r.Context(), mapper.MergeForUpdate(existing, req))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, a.logger, http.StatusOK, mapper.ToResponse(updated))
}

// deleteItemHandler handles DELETE /v1/base/{id}. Responds 204 with no body.
func (a *API) deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	if err := a.items.Delete(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
