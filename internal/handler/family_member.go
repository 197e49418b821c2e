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

type FamilyMemberHandler struct {
	store  storage.Storage
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewFamilyMemberHandler(store storage.Storage, hub *websocket.Hub, logger *slog.Logger) *FamilyMemberHandler {
	return &FamilyMemberHandler{store: store, hub: hub, logger: logger.With("component", "family_member")}
}

type familyMemberRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	AvatarURL string `json:"avatar_url"`
}

func (h *FamilyMemberHandler) parse(w http.ResponseWriter, r *http.Request) (*familyMemberRequest, bool) {
	var req familyMemberRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	return &req, true
}

func (h *FamilyMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManageMembers); !ok {
		return
	}
	req, ok := h.parse(w, r)
	if !ok {
		return
	}

	member, err := h.store.CreateFamilyMember(familyID, req.Name, req.Color, req.AvatarURL)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("family_member", "created", member.ID, familyID))
	writeJSON(w, http.StatusCreated, member)
}

func (h *FamilyMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	members, err := h.store.ListFamilyMembers(familyID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if members == nil {
		members = []model.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *FamilyMemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	member, err := h.store.GetFamilyMember(familyID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *FamilyMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManageMembers); !ok {
		return
	}
	req, ok := h.parse(w, r)
	if !ok {
		return
	}

	member, err := h.store.UpdateFamilyMember(familyID, r.PathValue("id"), req.Name, req.Color, req.AvatarURL)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("family_member", "updated", member.ID, familyID))
	writeJSON(w, http.StatusOK, member)
}

func (h *FamilyMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	familyID := familyIDParam(r)
	if _, _, ok := requireAction(w, r, h.store, h.logger, familyID, auth.ActionManageMembers); !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.store.DeleteFamilyMember(familyID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.hub.Broadcast(familyID, websocket.NewMessage("family_member", "deleted", id, familyID))
	w.WriteHeader(http.StatusNoContent)
}
