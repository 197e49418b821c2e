package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

// HandleWebSocket upgrades the connection and subscribes it to the family's
// room. The caller must be a member of the family named by ?family_id.
func HandleWebSocket(hub *Hub, store storage.Storage, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		familyID := r.URL.Query().Get("family_id")
		if familyID == "" {
			http.Error(w, "family_id required", http.StatusBadRequest)
			return
		}

		userID := auth.UserID(r.Context())
		membership, err := store.GetMembership(familyID, userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if membership == nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Cross-origin clients (mobile webview, local dev)
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, familyID)
		client.Run(r.Context())
	}
}
