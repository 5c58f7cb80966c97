package naver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNaver serves the token and profile endpoints. Authorization
// codes are single-use, like the real thing.
type fakeNaver struct {
	srv        *httptest.Server
	validCodes map[string]bool
	tokenBody  map[string]any // overrides the default token response
	profile    map[string]any
}

func newFakeNaver(t *testing.T) *fakeNaver {
	t.Helper()
	f := &fakeNaver{
		validCodes: map[string]bool{"good-code": true},
		profile: map[string]any{
			"resultcode": "00",
			"message":    "success",
			"response": map[string]any{
				"id":    "naver-user-1",
				"email": "user@naver.com",
				"name":  "User",
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2.0/token", f.handleToken)
	mux.HandleFunc("/v1/nid/me", f.handleProfile)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeNaver) handleToken(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	code := r.Form.Get("code")
	if !f.validCodes[code] {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_grant",
			"error_description": "invalid authorization code",
		})
		return
	}
	delete(f.validCodes, code)

	body := f.tokenBody
	if body == nil {
		body = map[string]any{
			"access_token":  "the-access-token",
			"refresh_token": "the-refresh-token",
			"token_type":    "bearer",
			"expires_in":    3600,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeNaver) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer the-access-token" {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resultcode": "024",
			"message":    "Authentication failed",
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f.profile)
}

func newTestProvider(t *testing.T, f *fakeNaver) *Provider {
	t.Helper()
	p, err := New("client-id", "client-secret", "http://localhost/naver_callback",
		WithEndpoints(
			f.srv.URL+"/oauth2.0/authorize",
			f.srv.URL+"/oauth2.0/token",
			f.srv.URL+"/v1/nid/me",
		),
		WithHTTPClient(f.srv.Client()),
	)
	require.NoError(t, err)
	return p
}

func TestNewRequiresClientCredentials(t *testing.T) {
	_, err := New("", "secret", "http://localhost/cb")
	assert.Error(t, err)

	_, err = New("id", "", "http://localhost/cb")
	assert.Error(t, err)
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	f := newFakeNaver(t)
	p := newTestProvider(t, f)

	raw := p.AuthCodeURL("state-token", "ignored-challenge")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-token", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestExchangeCode(t *testing.T) {
	f := newFakeNaver(t)
	p := newTestProvider(t, f)

	identity, err := p.ExchangeCode(context.Background(), "good-code", "state-token", "")
	require.NoError(t, err)

	assert.Equal(t, "naver", identity.Provider)
	assert.Equal(t, "naver-user-1", identity.ProviderUserID)
	assert.Equal(t, "naver:naver-user-1", identity.Key())
	assert.Equal(t, "user@naver.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "User", identity.DisplayName)
}

func TestExchangeTokenRejectsSpentCode(t *testing.T) {
	f := newFakeNaver(t)
	p := newTestProvider(t, f)

	_, err := p.ExchangeToken(context.Background(), "good-code", "state-token")
	require.NoError(t, err)

	_, err = p.ExchangeToken(context.Background(), "good-code", "state-token")
	assert.Error(t, err)
}

func TestExchangeTokenMissingAccessToken(t *testing.T) {
	f := newFakeNaver(t)
	f.tokenBody = map[string]any{
		"token_type": "bearer",
		"expires_in": 3600,
	}
	p := newTestProvider(t, f)

	// The oauth2 client reports the missing field before our own
	// sentinel check can run; either way the exchange must fail.
	_, err := p.ExchangeToken(context.Background(), "good-code", "state-token")
	assert.Error(t, err)
}

func TestFetchProfileMissingUserID(t *testing.T) {
	f := newFakeNaver(t)
	f.profile = map[string]any{
		"resultcode": "00",
		"message":    "success",
		"response":   map[string]any{"email": "user@naver.com"},
	}
	p := newTestProvider(t, f)

	_, err := p.FetchProfile(context.Background(), "the-access-token")
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestFetchProfileRejectsBadToken(t *testing.T) {
	f := newFakeNaver(t)
	p := newTestProvider(t, f)

	_, err := p.FetchProfile(context.Background(), "wrong-token")
	assert.Error(t, err)
}

func TestProfileWithoutEmailIsUnverified(t *testing.T) {
	f := newFakeNaver(t)
	f.profile = map[string]any{
		"resultcode": "00",
		"message":    "success",
		"response":   map[string]any{"id": "naver-user-1", "name": "User"},
	}
	p := newTestProvider(t, f)

	identity, err := p.FetchProfile(context.Background(), "the-access-token")
	require.NoError(t, err)
	assert.Empty(t, identity.Email)
	assert.False(t, identity.EmailVerified)
}
