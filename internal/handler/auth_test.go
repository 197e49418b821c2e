package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/middleware"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

func newAuthHandler(f *fixture) *AuthHandler {
	cfg := &config.Config{
		BaseURL:         "http://localhost:8080",
		DemoTokenSecret: "test-secret",
	}
	return NewAuthHandler(f.store, f.store, cfg, testLogger())
}

func TestDemoLoginFlow(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	w := httptest.NewRecorder()
	h.DemoLogin(w, httptest.NewRequest("POST", "/api/login/demo", nil))
	wantStatus(t, w, http.StatusCreated)

	var resp struct {
		UserID    string `json:"user_id"`
		FamilyID  string `json:"family_id"`
		DemoToken string `json:"demo_token"`
	}
	decodeBody(t, w, &resp)
	if !storage.IsDemoUserID(resp.UserID) {
		t.Errorf("user_id = %q, want demo prefix", resp.UserID)
	}
	if resp.FamilyID == "" || resp.DemoToken == "" {
		t.Errorf("resp = %+v", resp)
	}

	// A session cookie was set and resolves.
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie set")
	}
	sess, err := f.store.GetSessionByToken(sessionCookie.Value)
	if err != nil || sess == nil || sess.UserID != resp.UserID {
		t.Fatalf("session = %+v, %v", sess, err)
	}

	// The seeded dataset is in place.
	families, err := f.store.GetUserFamilies(resp.UserID)
	if err != nil {
		t.Fatalf("get families: %v", err)
	}
	if len(families) != 2 {
		t.Errorf("demo families = %d, want 2", len(families))
	}

	// The handed-out token verifies.
	w = httptest.NewRecorder()
	h.DemoVerify(w, f.request(t, "", "POST", "/api/auth/demo-verify", map[string]string{"token": resp.DemoToken}))
	wantStatus(t, w, http.StatusOK)
	var verify struct {
		Status string `json:"status"`
		UserID string `json:"user_id"`
	}
	decodeBody(t, w, &verify)
	if verify.Status != "verified" || verify.UserID != resp.UserID {
		t.Errorf("verify = %+v", verify)
	}
}

func TestDemoVerifyRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	w := httptest.NewRecorder()
	h.DemoVerify(w, f.request(t, "", "POST", "/api/auth/demo-verify", map[string]string{"token": "not-a-jwt"}))
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestDemoVerifyRejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	// Token minted under a different secret.
	other := NewAuthHandler(f.store, f.store, &config.Config{DemoTokenSecret: "other-secret"}, testLogger())
	token, err := other.signDemoToken(storage.NewDemoUserID())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	h.DemoVerify(w, f.request(t, "", "POST", "/api/auth/demo-verify", map[string]string{"token": token}))
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestDemoVerifyRejectsNonDemoSubject(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	token, err := h.signDemoToken("user-regular")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := httptest.NewRecorder()
	h.DemoVerify(w, f.request(t, "", "POST", "/api/auth/demo-verify", map[string]string{"token": token}))
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestLogoutDeletesSession(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	sess, err := f.store.CreateSession(f.owner.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	r := f.request(t, f.owner.ID, "POST", "/api/logout", nil)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.Token})
	w := httptest.NewRecorder()
	h.Logout(w, r)
	wantStatus(t, w, http.StatusOK)

	got, err := f.store.GetSessionByToken(sess.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Error("session survived logout")
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	w := httptest.NewRecorder()
	h.Me(w, f.request(t, f.owner.ID, "GET", "/api/me", nil))
	wantStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	h.Me(w, f.request(t, "user-ghost", "GET", "/api/me", nil))
	wantStatus(t, w, http.StatusNotFound)
}

func TestOAuthLoginUnconfigured(t *testing.T) {
	f := newFixture(t)
	h := newAuthHandler(f)

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("GET", "/api/login", nil))
	wantStatus(t, w, http.StatusServiceUnavailable)
}

func TestOAuthLoginRedirects(t *testing.T) {
	f := newFixture(t)
	cfg := &config.Config{
		BaseURL:         "http://localhost:8080",
		DemoTokenSecret: "test-secret",
		OAuth: config.OAuthConfig{
			ClientID:    "client",
			AuthURL:     "https://auth.example.com/authorize",
			TokenURL:    "https://auth.example.com/token",
			RedirectURL: "http://localhost:8080/api/callback",
		},
	}
	h := NewAuthHandler(f.store, f.store, cfg, testLogger())

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("GET", "/api/login", nil))
	wantStatus(t, w, http.StatusFound)

	loc := w.Header().Get("Location")
	if loc == "" {
		t.Fatal("no redirect location")
	}

	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == stateCookieName {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("no state cookie set")
	}
}

func TestOAuthCallbackStateMismatch(t *testing.T) {
	f := newFixture(t)
	cfg := &config.Config{
		DemoTokenSecret: "test-secret",
		OAuth: config.OAuthConfig{
			ClientID: "client",
			AuthURL:  "https://auth.example.com/authorize",
			TokenURL: "https://auth.example.com/token",
		},
	}
	h := NewAuthHandler(f.store, f.store, cfg, testLogger())

	r := httptest.NewRequest("GET", "/api/callback?state=attacker&code=x", nil)
	r.AddCookie(&http.Cookie{Name: stateCookieName, Value: "legit"})
	w := httptest.NewRecorder()
	h.Callback(w, r)
	wantStatus(t, w, http.StatusBadRequest)
}
