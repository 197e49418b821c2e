package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

type FamilyHandler struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewFamilyHandler(store storage.Storage, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{store: store, logger: logger.With("component", "family")}
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	family, err := h.store.CreateFamily(req.Name, auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, family)
}

// List returns the caller's families.
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	families, err := h.store.GetUserFamilies(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if families == nil {
		families = []model.Family{}
	}
	writeJSON(w, http.StatusOK, families)
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	family, err := h.store.GetFamily(familyID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// Join adds the caller to the family matching the invite code. The joining
// role defaults to member; "caregiver" may be requested explicitly.
func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteCode string `json:"invite_code"`
		Role       string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.InviteCode = strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if req.InviteCode == "" {
		writeError(w, http.StatusBadRequest, "invite_code is required")
		return
	}
	role := req.Role
	switch role {
	case "":
		role = model.RoleMember
	case model.RoleMember, model.RoleCaregiver:
	default:
		writeError(w, http.StatusBadRequest, "role must be member or caregiver")
		return
	}

	family, err := h.store.GetFamilyByInviteCode(req.InviteCode)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "invite code not found")
		return
	}

	membership, err := h.store.AddMembership(family.ID, auth.UserID(r.Context()), role)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"family":     family,
		"membership": membership,
	})
}

// Memberships lists who belongs to the family and with what role.
func (h *FamilyHandler) Memberships(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	if _, _, ok := requireMember(w, r, h.store, h.logger, familyID); !ok {
		return
	}
	memberships, err := h.store.ListMemberships(familyID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if memberships == nil {
		memberships = []model.Membership{}
	}
	writeJSON(w, http.StatusOK, memberships)
}
