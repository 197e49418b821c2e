package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/websocket"
)

// NoteHandler serves both event subresources: chat messages and threaded
// notes.
type NoteHandler struct {
	store  storage.Storage
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewNoteHandler(store storage.Storage, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{store: store, hub: hub, logger: logger.With("component", "note")}
}

func (h *NoteHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	_, userID, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionPostMessages)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg, err := h.store.CreateMessage(familyID, r.PathValue("id"), userID, req.Content)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event_message", "created", msg.ID, familyID))
	writeJSON(w, http.StatusCreated, msg)
}

func (h *NoteHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	messages, err := h.store.ListMessages(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *NoteHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionPostMessages); !ok {
		return
	}

	id := r.PathValue("messageID")
	if err := h.store.DeleteMessage(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event_message", "deleted", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	_, userID, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionPostMessages)
	if !ok {
		return
	}

	var req struct {
		Content      string  `json:"content"`
		ParentNoteID *string `json:"parent_note_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	note, err := h.store.CreateEventNote(familyID, r.PathValue("id"), userID, req.Content, req.ParentNoteID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event_note", "created", note.ID, familyID))
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	notes, err := h.store.ListEventNotes(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if notes == nil {
		notes = []model.EventNote{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionPostMessages); !ok {
		return
	}

	id := r.PathValue("noteID")
	if err := h.store.DeleteEventNote(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("event_note", "deleted", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}
