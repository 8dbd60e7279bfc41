package medium

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"autopost/internal/model"

	"golang.org/x/oauth2"
)

const (
	DefaultAuthorizeURL = "https://medium.com/m/oauth/authorize"
	DefaultAPIURL       = "https://api.medium.com/v1"

	scopes = "basicProfile,publishPost"
)

var (
	ErrStateMismatch       = errors.New("invalid state")
	ErrUpstreamAuthFailure = errors.New("token exchange failed")
)

type SessionStore interface {
	Get(ctx context.Context, id string) (model.AuthSession, error)
	Save(ctx context.Context, id string, s model.AuthSession) error
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	AuthorizeURL string
	APIURL       string
}

// TokenManager runs the authorization-code flow and keeps the resulting
// bearer token on the operator's session.
type TokenManager struct {
	oauth      *oauth2.Config
	sessions   SessionStore
	httpClient *http.Client
}

func NewTokenManager(cfg OAuthConfig, sessions SessionStore, httpClient *http.Client) *TokenManager {
	authURL := cfg.AuthorizeURL
	if authURL == "" {
		authURL = DefaultAuthorizeURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &TokenManager{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{scopes},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  apiURL + "/tokens",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		sessions:   sessions,
		httpClient: httpClient,
	}
}

// BeginLogin issues a fresh state for the session, replacing any pending one,
// and returns the authorization URL the operator should be sent to.
func (m *TokenManager) BeginLogin(ctx context.Context, sessionID string) (string, string, error) {
	state, err := generateState()
	if err != nil {
		return "", "", err
	}

	s, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	s.State = state

	if err := m.sessions.Save(ctx, sessionID, s); err != nil {
		return "", "", fmt.Errorf("save session: %w", err)
	}

	return m.oauth.AuthCodeURL(state), state, nil
}

// CompleteLogin validates the returned state and exchanges the code for an
// access token. The pending state is consumed whatever the outcome.
func (m *TokenManager) CompleteLogin(ctx context.Context, sessionID, code, state string) (string, error) {
	s, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	expected := s.State
	s.State = ""
	if err := m.sessions.Save(ctx, sessionID, s); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	if expected == "" || state != expected {
		return "", ErrStateMismatch
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	tok, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamAuthFailure, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrUpstreamAuthFailure)
	}

	s.AccessToken = tok.AccessToken
	if err := m.sessions.Save(ctx, sessionID, s); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return tok.AccessToken, nil
}

func (m *TokenManager) CurrentToken(ctx context.Context, sessionID string) (string, bool, error) {
	s, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", false, err
	}
	return s.AccessToken, s.AccessToken != "", nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
