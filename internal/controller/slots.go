package controller

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/service"
)

func (h *Handler) Week(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, http.StatusOK, toWeek(h.slots.Week()))
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	status := model.SlotStatus(query.Get("status"))
	if status != "" && !status.Valid() {
		h.writeError(w, r, fmt.Errorf("%w: status %q", ErrInvalidParams, status))
		return
	}

	groups, err := h.slots.ListSlots(r.Context(), session(r), query.Get("mentor"), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, toSlotGroups(groups))
}

func (h *Handler) CreateSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.CreateSlotsRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.slots.CreateSlots(r.Context(), session(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, created)
}

func (h *Handler) EditSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req service.EditSlotRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.slots.EditSlot(r.Context(), session(r), ps.ByName("id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, updated)
}

func (h *Handler) ArchiveSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	archived, err := h.slots.ArchiveSlot(r.Context(), session(r), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, archived)
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.slots.DeleteSlot(r.Context(), session(r), ps.ByName("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SlotSettings - сохранённые настройки для формы; data: null, если их нет
func (h *Handler) SlotSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	settings, err := h.slots.SavedSettings(r.Context(), session(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, toSettings(settings))
}
