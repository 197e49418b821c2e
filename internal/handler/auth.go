package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/middleware"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

const (
	stateCookieName = "kindora_oauth_state"
	demoTokenTTL    = 5 * time.Minute
)

type AuthHandler struct {
	store           storage.Storage
	mem             *storage.Memory
	oauth           *oauth2.Config
	demoTokenSecret []byte
	secureCookies   bool
	logger          *slog.Logger
}

func NewAuthHandler(store storage.Storage, mem *storage.Memory, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	var oc *oauth2.Config
	if cfg.OAuth.ClientID != "" {
		oc = &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuth.AuthURL,
				TokenURL: cfg.OAuth.TokenURL,
			},
		}
	}
	return &AuthHandler{
		store:           store,
		mem:             mem,
		oauth:           oc,
		demoTokenSecret: []byte(cfg.DemoTokenSecret),
		secureCookies:   len(cfg.BaseURL) >= 8 && cfg.BaseURL[:8] == "https://",
		logger:          logger.With("component", "auth"),
	}
}

// Login starts the OAuth2 authorize flow with a random state pinned in a
// short-lived cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, http.StatusServiceUnavailable, "oauth login is not configured")
		return
	}

	state := randomHex(16)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback finishes the flow: state check, code exchange, ID-token claim
// extraction, user upsert, session cookie.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		writeError(w, http.StatusServiceUnavailable, "oauth login is not configured")
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	h.clearCookie(w, stateCookieName)

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("code exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		writeError(w, http.StatusBadGateway, "provider returned no id_token")
		return
	}
	claims, err := parseIDTokenClaims(idToken)
	if err != nil {
		h.logger.Warn("id token parse failed", "error", err)
		writeError(w, http.StatusBadGateway, "invalid id_token")
		return
	}

	user, err := h.store.UpsertUser(claims.Subject, claims.Email, claims.Name, claims.Picture)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if err := h.startSession(w, user.ID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// idTokenClaims is the subset of OIDC ID-token claims we consume. The token
// arrived over the provider's TLS token endpoint, so we parse without
// re-verifying the provider signature.
type idTokenClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func parseIDTokenClaims(idToken string) (*idTokenClaims, error) {
	claims := &idTokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("id token missing subject")
	}
	return claims, nil
}

// DemoLogin creates a fresh demo identity, seeds its in-memory dataset, and
// opens a session. The response carries a short-lived signed token the client
// can hand to other tabs for verification.
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	userID := storage.NewDemoUserID()

	family, err := storage.SeedDemo(h.mem, userID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if err := h.startSession(w, userID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	demoToken, err := h.signDemoToken(userID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("demo login", "user_id", userID)
	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id":    userID,
		"family_id":  family.ID,
		"demo_token": demoToken,
	})
}

// DemoVerify checks a demo token's signature and expiry.
func (h *AuthHandler) DemoVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(req.Token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.demoTokenSecret, nil
	})
	if err != nil || !token.Valid || !storage.IsDemoUserID(claims.Subject) {
		writeError(w, http.StatusUnauthorized, "invalid demo token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "verified",
		"user_id": claims.Subject,
	})
}

func (h *AuthHandler) signDemoToken(userID string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(demoTokenTTL)),
	})
	signed, err := token.SignedString(h.demoTokenSecret)
	if err != nil {
		return "", fmt.Errorf("sign demo token: %w", err)
	}
	return signed, nil
}

// Logout deletes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.store.DeleteSessionByToken(cookie.Value); err != nil {
			h.logger.Warn("delete session", "error", err)
		}
	}
	h.clearCookie(w, middleware.SessionCookieName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	user, err := h.store.GetUser(userID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID string) error {
	sess, err := h.store.CreateSession(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
