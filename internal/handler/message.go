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

// MessageHandler serves the family-wide threaded chat.
type MessageHandler struct {
	store  storage.Storage
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewMessageHandler(store storage.Storage, hub *websocket.Hub, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{store: store, hub: hub, logger: logger.With("component", "message")}
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	_, userID, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionPostMessages)
	if !ok {
		return
	}

	var req struct {
		Content         string  `json:"content"`
		ParentMessageID *string `json:"parent_message_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg, err := h.store.CreateFamilyMessage(familyID, userID, req.Content, req.ParentMessageID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("message", "created", msg.ID, familyID))
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	messages, err := h.store.ListFamilyMessages(familyID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if messages == nil {
		messages = []model.FamilyMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionPostMessages); !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.store.DeleteFamilyMessage(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("message", "deleted", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}
