package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/photo"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/websocket"
)

type EventHandler struct {
	store  storage.Storage
	photos *photo.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewEventHandler(store storage.Storage, photos *photo.Service, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: store, photos: photos, hub: hub, logger: logger.With("component", "event")}
}

type eventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Color       string   `json:"color"`
	MemberIDs   []string `json:"member_ids"`
}

func (h *EventHandler) parse(w http.ResponseWriter, r *http.Request, familyID string) (storage.EventParams, bool) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return storage.EventParams{}, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return storage.EventParams{}, false
	}
	if len(req.MemberIDs) == 0 {
		writeError(w, http.StatusBadRequest, "member_ids must not be empty")
		return storage.EventParams{}, false
	}

	start, ok := parseRFC3339(w, "start_time", req.StartTime)
	if !ok {
		return storage.EventParams{}, false
	}
	end, ok := parseRFC3339(w, "end_time", req.EndTime)
	if !ok {
		return storage.EventParams{}, false
	}
	if !start.Before(end) {
		writeError(w, http.StatusBadRequest, "start_time must be before end_time")
		return storage.EventParams{}, false
	}

	for _, memberID := range req.MemberIDs {
		member, err := h.store.GetFamilyMember(familyID, memberID)
		if err != nil {
			writeStoreError(w, h.logger, err)
			return storage.EventParams{}, false
		}
		if member == nil {
			writeError(w, http.StatusBadRequest, "unknown family member: "+memberID)
			return storage.EventParams{}, false
		}
	}

	return storage.EventParams{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Color:       req.Color,
		MemberIDs:   req.MemberIDs,
	}, true
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionEditEvents); !ok {
		return
	}
	params, ok := h.parse(w, r, familyID)
	if !ok {
		return
	}

	event, err := h.store.CreateEvent(familyID, params)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event", "created", event.ID, familyID))
	writeJSON(w, http.StatusCreated, event)
}

// List returns all events, or the overlap with ?start/?end when both given.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}

	var events []model.Event
	var err error
	startStr, endStr := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if startStr != "" || endStr != "" {
		var start, end time.Time
		var ok bool
		if start, ok = parseRFC3339(w, "start", startStr); !ok {
			return
		}
		if end, ok = parseRFC3339(w, "end", endStr); !ok {
			return
		}
		events, err = h.store.ListEventsByRange(familyID, start, end)
	} else {
		events, err = h.store.ListEvents(familyID)
	}
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	event, err := h.store.GetEvent(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionEditEvents); !ok {
		return
	}
	params, ok := h.parse(w, r, familyID)
	if !ok {
		return
	}

	event, err := h.store.UpdateEvent(familyID, r.PathValue("id"), params)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event", "updated", event.ID, familyID))
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionEditEvents); !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.store.DeleteEvent(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event", "deleted", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleComplete flips the event's completion flag.
func (h *EventHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionEditEvents); !ok {
		return
	}

	event, err := h.store.ToggleEventComplete(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event", "completed", event.ID, familyID))
	writeJSON(w, http.StatusOK, event)
}

// PhotoUploadURL presigns a PUT slot for the event's photo.
func (h *EventHandler) PhotoUploadURL(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionEditEvents); !ok {
		return
	}
	if !h.photos.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "photo uploads are not configured")
		return
	}

	id := r.PathValue("id")
	event, err := h.store.GetEvent(familyID, id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	var req struct {
		ContentType string `json:"content_type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		writeError(w, http.StatusBadRequest, "content_type must be an image type")
		return
	}

	upload, err := h.photos.NewUpload(r.Context(), familyID, id, req.ContentType)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

// SetPhoto registers an uploaded photo URL on the event.
func (h *EventHandler) SetPhoto(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionEditEvents); !ok {
		return
	}

	var req struct {
		PhotoURL string `json:"photo_url"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PhotoURL) == "" {
		writeError(w, http.StatusBadRequest, "photo_url is required")
		return
	}

	event, err := h.store.SetEventPhoto(familyID, r.PathValue("id"), req.PhotoURL)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event", "updated", event.ID, familyID))
	writeJSON(w, http.StatusOK, event)
}
