package handler

import (
	"log/slog"
	"net/http"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/websocket"
)

type CaregiverHandler struct {
	store  storage.Storage
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewCaregiverHandler(store storage.Storage, hub *websocket.Hub, logger *slog.Logger) *CaregiverHandler {
	return &CaregiverHandler{store: store, hub: hub, logger: logger.With("component", "caregiver")}
}

// requirePayView allows view_pay holders; caregivers only see their own pay.
func (h *CaregiverHandler) requirePayView(w http.ResponseWriter, r *http.Request, familyID, caregiverID string) bool {
	role, userID, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionViewPay)
	if !ok {
		return false
	}
	if role == model.RoleCaregiver && caregiverID != userID {
		writeStoreError(w, h.logger, &auth.PermissionError{Role: role, Action: auth.ActionViewPay})
		return false
	}
	return true
}

// SetRate upserts the caregiver's hourly rate. Existing time entries keep
// their snapshots.
func (h *CaregiverHandler) SetRate(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManagePay); !ok {
		return
	}

	var req struct {
		HourlyRate float64 `json:"hourly_rate"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "hourly_rate must not be negative")
		return
	}

	rate, err := h.store.SetCaregiverPayRate(familyID, r.PathValue("caregiverID"), req.HourlyRate)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("pay_rate", "updated", rate.ID, familyID))
	writeJSON(w, http.StatusOK, rate)
}

func (h *CaregiverHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	caregiverID := r.PathValue("caregiverID")
	if !h.requirePayView(w, r, familyID, caregiverID) {
		return
	}

	rate, err := h.store.GetCaregiverPayRate(familyID, caregiverID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if rate == nil {
		writeError(w, http.StatusNotFound, "pay rate not set")
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// CreateTimeEntry logs a worked shift. Caregivers may only log their own
// time; the rate snapshot happens in storage.
func (h *CaregiverHandler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	caregiverID := r.PathValue("caregiverID")
	role, userID, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionLogTime)
	if !ok {
		return
	}
	if role == model.RoleCaregiver && caregiverID != userID {
		writeStoreError(w, h.logger, &auth.PermissionError{Role: role, Action: auth.ActionLogTime})
		return
	}

	var req struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Notes     string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	start, ok := parseRFC3339(w, "start_time", req.StartTime)
	if !ok {
		return
	}
	end, ok := parseRFC3339(w, "end_time", req.EndTime)
	if !ok {
		return
	}
	if !start.Before(end) {
		writeError(w, http.StatusBadRequest, "start_time must be before end_time")
		return
	}

	entry, err := h.store.CreateTimeEntry(familyID, caregiverID, start, end, req.Notes)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("time_entry", "created", entry.ID, familyID))
	writeJSON(w, http.StatusCreated, entry)
}

func (h *CaregiverHandler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	caregiverID := r.PathValue("caregiverID")
	if !h.requirePayView(w, r, familyID, caregiverID) {
		return
	}

	entries, err := h.store.ListTimeEntries(familyID, caregiverID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []model.CaregiverTimeEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *CaregiverHandler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManagePay); !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.store.DeleteTimeEntry(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("time_entry", "deleted", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}
