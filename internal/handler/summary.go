package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/email"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

// cronSecretHeader carries the shared secret the external scheduler sends.
const cronSecretHeader = "X-Cron-Secret"

// SummaryHandler drives the externally triggered weekly summary job.
type SummaryHandler struct {
	store          storage.Storage
	email          *email.Service
	cronSecretHash string
	logger         *slog.Logger
}

func NewSummaryHandler(store storage.Storage, emailSvc *email.Service, cronSecretHash string, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		store:          store,
		email:          emailSvc,
		cronSecretHash: cronSecretHash,
		logger:         logger.With("component", "summary"),
	}
}

type summaryResult struct {
	FamiliesProcessed int      `json:"families_processed"`
	EmailsSent        int      `json:"emails_sent"`
	Errors            []string `json:"errors,omitempty"`
}

// WeeklySummary iterates persistent families, counts the coming week's
// events, and emails every member. No retries; failures are collected into
// the response.
func (h *SummaryHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	if h.cronSecretHash == "" {
		writeError(w, http.StatusServiceUnavailable, "weekly summary is not configured")
		return
	}
	secret := r.Header.Get(cronSecretHeader)
	if secret == "" || bcrypt.CompareHashAndPassword([]byte(h.cronSecretHash), []byte(secret)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid cron secret")
		return
	}

	families, err := h.store.ListAllFamilies()
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	now := time.Now().UTC()
	weekEnd := now.AddDate(0, 0, 7)
	result := summaryResult{}

	for _, family := range families {
		result.FamiliesProcessed++

		events, err := h.store.ListEventsByRange(family.ID, now, weekEnd)
		if err != nil {
			h.logger.Error("list events for summary", "family_id", family.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("family %s: %v", family.ID, err))
			continue
		}

		memberships, err := h.store.ListMemberships(family.ID)
		if err != nil {
			h.logger.Error("list memberships for summary", "family_id", family.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("family %s: %v", family.ID, err))
			continue
		}

		subject := fmt.Sprintf("%s: your week ahead", family.Name)
		body := summaryBody(family.Name, events)

		for _, membership := range memberships {
			user, err := h.store.GetUser(membership.UserID)
			if err != nil || user == nil || user.Email == "" {
				continue
			}
			if err := h.email.Send(r.Context(), user.Email, subject, body); err != nil {
				h.logger.Error("send summary email", "to", user.Email, "error", err)
				result.Errors = append(result.Errors, fmt.Sprintf("email %s: %v", user.Email, err))
				continue
			}
			result.EmailsSent++
		}
	}

	h.logger.Info("weekly summary complete",
		"families", result.FamiliesProcessed,
		"emails", result.EmailsSent,
		"errors", len(result.Errors))
	writeJSON(w, http.StatusOK, result)
}

func summaryBody(familyName string, events []model.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi! Here's what's coming up for %s this week.\n\n", familyName)
	if len(events) == 0 {
		b.WriteString("Nothing scheduled — enjoy the quiet week!\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d event(s) scheduled:\n\n", len(events))
	for _, e := range events {
		fmt.Fprintf(&b, "- %s: %s", e.StartTime.Format("Mon Jan 2 15:04"), e.Title)
		if e.Description != "" {
			fmt.Fprintf(&b, " (%s)", e.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
