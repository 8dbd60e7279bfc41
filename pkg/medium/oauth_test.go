package medium

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"autopost/internal/model"

	"github.com/go-playground/assert/v2"
)

type fakeSessions struct {
	data map[string]model.AuthSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: map[string]model.AuthSession{}}
}

func (f *fakeSessions) Get(ctx context.Context, id string) (model.AuthSession, error) {
	return f.data[id], nil
}

func (f *fakeSessions) Save(ctx context.Context, id string, s model.AuthSession) error {
	f.data[id] = s
	return nil
}

type tokenRequest struct {
	user, pass string
	form       url.Values
}

func newTokenServer(t *testing.T, status int, body interface{}, got *tokenRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens" {
			http.NotFound(w, r)
			return
		}
		r.ParseForm()
		if got != nil {
			got.user, got.pass, _ = r.BasicAuth()
			got.form = r.PostForm
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(apiURL string, sessions SessionStore) *TokenManager {
	return NewTokenManager(OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		CallbackURL:  "https://autopost.example.com/callback",
		APIURL:       apiURL,
	}, sessions, nil)
}

func TestBeginLogin_BuildsAuthorizeURL(t *testing.T) {
	sessions := newFakeSessions()
	m := newTestManager("", sessions)

	authURL, state, err := m.BeginLogin(context.Background(), "s1")
	assert.Equal(t, nil, err)
	assert.Equal(t, 64, len(state))
	assert.Equal(t, state, sessions.data["s1"].State)
	assert.Equal(t, model.StateLoggingIn, sessions.data["s1"].Status())

	u, err := url.Parse(authURL)
	assert.Equal(t, nil, err)
	assert.Equal(t, "medium.com", u.Host)
	assert.Equal(t, "/m/oauth/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "basicProfile,publishPost", q.Get("scope"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "https://autopost.example.com/callback", q.Get("redirect_uri"))
}

func TestBeginLogin_OverwritesPendingState(t *testing.T) {
	sessions := newFakeSessions()
	m := newTestManager("", sessions)

	_, first, _ := m.BeginLogin(context.Background(), "s1")
	_, second, _ := m.BeginLogin(context.Background(), "s1")

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, sessions.data["s1"].State)
}

func TestCompleteLogin_StateMismatch(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		returned string
	}{
		{name: "different state", returned: "forged"},
		{name: "empty state", returned: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newFakeSessions()
			m := newTestManager(srv.URL, sessions)
			m.BeginLogin(context.Background(), "s1")

			_, err := m.CompleteLogin(context.Background(), "s1", "valid-code", tt.returned)

			assert.Equal(t, true, errors.Is(err, ErrStateMismatch))
			_, ok, _ := m.CurrentToken(context.Background(), "s1")
			assert.Equal(t, false, ok)
		})
	}

	assert.Equal(t, false, called)
}

func TestCompleteLogin_NoLoginStarted(t *testing.T) {
	m := newTestManager("", newFakeSessions())

	_, err := m.CompleteLogin(context.Background(), "unknown", "code", "")

	assert.Equal(t, true, errors.Is(err, ErrStateMismatch))
}

func TestCompleteLogin_Success(t *testing.T) {
	var got tokenRequest
	srv := newTokenServer(t, http.StatusCreated, map[string]interface{}{
		"token_type":    "Bearer",
		"access_token":  "medium-token",
		"refresh_token": "refresh",
		"scope":         []string{"basicProfile", "publishPost"},
		"expires_at":    1893456000000,
	}, &got)

	sessions := newFakeSessions()
	m := newTestManager(srv.URL, sessions)
	_, state, _ := m.BeginLogin(context.Background(), "s1")

	token, err := m.CompleteLogin(context.Background(), "s1", "auth-code", state)

	assert.Equal(t, nil, err)
	assert.Equal(t, "medium-token", token)
	assert.Equal(t, "client-id", got.user)
	assert.Equal(t, "client-secret", got.pass)
	assert.Equal(t, "authorization_code", got.form.Get("grant_type"))
	assert.Equal(t, "auth-code", got.form.Get("code"))
	assert.Equal(t, "https://autopost.example.com/callback", got.form.Get("redirect_uri"))

	current, ok, err := m.CurrentToken(context.Background(), "s1")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "medium-token", current)
	assert.Equal(t, model.StateAuthorized, sessions.data["s1"].Status())
}

func TestCompleteLogin_StateIsSingleUse(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, map[string]interface{}{
		"token_type":   "Bearer",
		"access_token": "medium-token",
	}, nil)

	m := newTestManager(srv.URL, newFakeSessions())
	_, state, _ := m.BeginLogin(context.Background(), "s1")

	_, err := m.CompleteLogin(context.Background(), "s1", "code", state)
	assert.Equal(t, nil, err)

	_, err = m.CompleteLogin(context.Background(), "s1", "code", state)
	assert.Equal(t, true, errors.Is(err, ErrStateMismatch))
}

func TestCompleteLogin_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   interface{}
	}{
		{name: "rejected code", status: http.StatusUnauthorized, body: map[string]interface{}{"errors": []map[string]interface{}{{"message": "Token was invalid.", "code": 6003}}}},
		{name: "missing token", status: http.StatusOK, body: map[string]interface{}{"token_type": "Bearer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTokenServer(t, tt.status, tt.body, nil)
			sessions := newFakeSessions()
			m := newTestManager(srv.URL, sessions)
			_, state, _ := m.BeginLogin(context.Background(), "s1")

			_, err := m.CompleteLogin(context.Background(), "s1", "bad-code", state)

			assert.Equal(t, true, errors.Is(err, ErrUpstreamAuthFailure))
			assert.Equal(t, model.StateIdle, sessions.data["s1"].Status())
		})
	}
}
