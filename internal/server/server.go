package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/email"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/handler"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/middleware"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/photo"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
	ws "github.com/mvicenzino/kindora-calendar-sub000/internal/websocket"
)

type Server struct {
	store storage.Storage
	hub   *ws.Hub

	authH         *handler.AuthHandler
	familyH       *handler.FamilyHandler
	familyMemberH *handler.FamilyMemberHandler
	eventH        *handler.EventHandler
	noteH         *handler.NoteHandler
	messageH      *handler.MessageHandler
	medicationH   *handler.MedicationHandler
	caregiverH    *handler.CaregiverHandler
	summaryH      *handler.SummaryHandler

	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires the full stack: router over both storage engines, websocket hub,
// and the handler set.
func New(ctx context.Context, store *storage.Router, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))

	emailSvc, err := email.NewService(ctx, cfg.Email, logger)
	if err != nil {
		return nil, err
	}
	photoSvc := photo.NewService(cfg.S3, cfg.PhotoURLTTL)
	if !photoSvc.Enabled() {
		logger.Info("photo uploads disabled: no S3 bucket configured")
	}

	return &Server{
		store:         store,
		hub:           hub,
		authH:         handler.NewAuthHandler(store, store.Mem(), cfg, logger),
		familyH:       handler.NewFamilyHandler(store, logger),
		familyMemberH: handler.NewFamilyMemberHandler(store, hub, logger),
		eventH:        handler.NewEventHandler(store, photoSvc, hub, logger),
		noteH:         handler.NewNoteHandler(store, hub, logger),
		messageH:      handler.NewMessageHandler(store, hub, logger),
		medicationH:   handler.NewMedicationHandler(store, hub, logger),
		caregiverH:    handler.NewCaregiverHandler(store, hub, logger),
		summaryH:      handler.NewSummaryHandler(store, emailSvc, cfg.CronSecretHash, logger),
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}, nil
}

// Store returns the storage router for cleanup tasks.
func (s *Server) Store() storage.Storage {
	return s.store
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /api/login", s.authH.Login)
	outerMux.HandleFunc("GET /api/callback", s.authH.Callback)
	outerMux.HandleFunc("POST /api/login/demo", s.rateLimitedHandler(s.authH.DemoLogin))
	outerMux.HandleFunc("POST /api/auth/demo-verify", s.authH.DemoVerify)
	outerMux.HandleFunc("POST /api/cron/weekly-summary", s.summaryH.WeeklySummary)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.store)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// Families and memberships
	mux.HandleFunc("POST /api/families", s.familyH.Create)
	mux.HandleFunc("GET /api/families", s.familyH.List)
	mux.HandleFunc("GET /api/families/{id}", s.familyH.Get)
	mux.HandleFunc("POST /api/families/join", s.familyH.Join)
	mux.HandleFunc("GET /api/families/{id}/memberships", s.familyH.Memberships)

	// Family members
	mux.HandleFunc("POST /api/family-members", s.familyMemberH.Create)
	mux.HandleFunc("GET /api/family-members", s.familyMemberH.List)
	mux.HandleFunc("GET /api/family-members/{id}", s.familyMemberH.Get)
	mux.HandleFunc("PUT /api/family-members/{id}", s.familyMemberH.Update)
	mux.HandleFunc("DELETE /api/family-members/{id}", s.familyMemberH.Delete)

	// Events
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)
	mux.HandleFunc("POST /api/events/{id}/complete", s.eventH.ToggleComplete)
	mux.HandleFunc("POST /api/events/{id}/photo/upload-url", s.eventH.PhotoUploadURL)
	mux.HandleFunc("PUT /api/events/{id}/photo", s.eventH.SetPhoto)

	// Event chat and threaded notes
	mux.HandleFunc("POST /api/events/{id}/messages", s.noteH.CreateMessage)
	mux.HandleFunc("GET /api/events/{id}/messages", s.noteH.ListMessages)
	mux.HandleFunc("DELETE /api/events/{id}/messages/{messageID}", s.noteH.DeleteMessage)
	mux.HandleFunc("POST /api/events/{id}/notes", s.noteH.CreateNote)
	mux.HandleFunc("GET /api/events/{id}/notes", s.noteH.ListNotes)
	mux.HandleFunc("DELETE /api/events/{id}/notes/{noteID}", s.noteH.DeleteNote)

	// Family-wide chat
	mux.HandleFunc("POST /api/messages", s.messageH.Create)
	mux.HandleFunc("GET /api/messages", s.messageH.List)
	mux.HandleFunc("DELETE /api/messages/{id}", s.messageH.Delete)

	// Medications
	mux.HandleFunc("POST /api/medications", s.medicationH.Create)
	mux.HandleFunc("GET /api/medications", s.medicationH.List)
	mux.HandleFunc("GET /api/medications/{id}", s.medicationH.Get)
	mux.HandleFunc("PUT /api/medications/{id}", s.medicationH.Update)
	mux.HandleFunc("DELETE /api/medications/{id}", s.medicationH.Deactivate)
	mux.HandleFunc("POST /api/medications/{id}/logs", s.medicationH.CreateLog)
	mux.HandleFunc("GET /api/medications/{id}/logs", s.medicationH.ListLogs)

	// Caregiver pay
	mux.HandleFunc("PUT /api/caregivers/{caregiverID}/rate", s.caregiverH.SetRate)
	mux.HandleFunc("GET /api/caregivers/{caregiverID}/rate", s.caregiverH.GetRate)
	mux.HandleFunc("POST /api/caregivers/{caregiverID}/time-entries", s.caregiverH.CreateTimeEntry)
	mux.HandleFunc("GET /api/caregivers/{caregiverID}/time-entries", s.caregiverH.ListTimeEntries)
	mux.HandleFunc("DELETE /api/time-entries/{id}", s.caregiverH.DeleteTimeEntry)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.store, s.logger.With("component", "websocket")))
}
