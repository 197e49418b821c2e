package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/websocket"
)

type MedicationHandler struct {
	store  storage.Storage
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewMedicationHandler(store storage.Storage, hub *websocket.Hub, logger *slog.Logger) *MedicationHandler {
	return &MedicationHandler{store: store, hub: hub, logger: logger.With("component", "medication")}
}

type medicationRequest struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Schedule string `json:"schedule"`
}

func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManageMedications); !ok {
		return
	}

	var req medicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id and name are required")
		return
	}

	med, err := h.store.CreateMedication(familyID, req.MemberID, req.Name, req.Dosage, req.Schedule)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("medication", "created", med.ID, familyID))
	writeJSON(w, http.StatusCreated, med)
}

// List returns medications, active-only unless ?include_inactive=true.
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	activeOnly := r.URL.Query().Get("include_inactive") != "true"
	medications, err := h.store.ListMedications(familyID, activeOnly)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if medications == nil {
		medications = []model.Medication{}
	}
	writeJSON(w, http.StatusOK, medications)
}

func (h *MedicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	med, err := h.store.GetMedication(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if med == nil {
		writeError(w, http.StatusNotFound, "medication not found")
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManageMedications); !ok {
		return
	}

	var req medicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	med, err := h.store.UpdateMedication(familyID, r.PathValue("id"), req.Name, req.Dosage, req.Schedule)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("medication", "updated", med.ID, familyID))
	writeJSON(w, http.StatusOK, med)
}

// Deactivate soft-deletes the medication; its logs remain readable.
func (h *MedicationHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManageMedications); !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.store.DeactivateMedication(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("medication", "deactivated", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *MedicationHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	_, userID, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionLogMedications)
	if !ok {
		return
	}

	var req struct {
		Status  string `json:"status"`
		Notes   string `json:"notes"`
		GivenAt string `json:"given_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	switch req.Status {
	case "given", "skipped", "refused":
	default:
		writeError(w, http.StatusBadRequest, "status must be given, skipped, or refused")
		return
	}
	givenAt := time.Now().UTC()
	if req.GivenAt != "" {
		var ok bool
		if givenAt, ok = parseRFC3339(w, "given_at", req.GivenAt); !ok {
			return
		}
	}

	log, err := h.store.CreateMedicationLog(familyID, r.PathValue("id"), userID, req.Status, req.Notes, givenAt)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("medication_log", "created", log.ID, familyID))
	writeJSON(w, http.StatusCreated, log)
}

func (h *MedicationHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	logs, err := h.store.ListMedicationLogs(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if logs == nil {
		logs = []model.MedicationLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
