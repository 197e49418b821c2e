package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps typed storage/auth errors to status codes; anything
// unrecognized is a logged 500.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var nf *storage.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.Error())
		return
	}
	var pe *auth.PermissionError
	if errors.As(err, &pe) {
		writeError(w, http.StatusForbidden, pe.Error())
		return
	}
	logger.Error("storage error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// familyIDParam reads the family scope from the query string.
func familyIDParam(r *http.Request) string {
	return r.URL.Query().Get("family_id")
}

// requireMember resolves the caller's membership in the family. A missing
// family id is 400; a family the caller does not belong to resolves to 404 so
// non-members cannot probe for existence.
func requireMember(w http.ResponseWriter, r *http.Request, store storage.Storage, logger *slog.Logger, familyID string) (role string, userID string, ok bool) {
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "family_id is required")
		return "", "", false
	}
	userID = auth.UserID(r.Context())
	membership, err := store.GetMembership(familyID, userID)
	if err != nil {
		writeStoreError(w, logger, err)
		return "", "", false
	}
	if membership == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return "", "", false
	}
	return membership.Role, userID, true
}

// requireAction layers a permission check over requireMember.
func requireAction(w http.ResponseWriter, r *http.Request, store storage.Storage, logger *slog.Logger, familyID string, action auth.Action) (role string, userID string, ok bool) {
	role, userID, ok = requireMember(w, r, store, logger, familyID)
	if !ok {
		return "", "", false
	}
	if err := auth.RequirePermission(role, action); err != nil {
		writeStoreError(w, logger, err)
		return "", "", false
	}
	return role, userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func parseRFC3339(w http.ResponseWriter, field, value string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, field+" must be RFC3339 format")
		return time.Time{}, false
	}
	return t, true
}
