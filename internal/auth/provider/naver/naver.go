package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adelie22/Artivora/internal/auth"
	"github.com/adelie22/Artivora/internal/logger"

	"golang.org/x/oauth2"
)

const providerName = "naver"

// Naver is plain OAuth2, not OIDC: there is no id_token and no
// discovery document. The profile comes from a separate REST endpoint.
const (
	defaultAuthURL    = "https://nid.naver.com/oauth2.0/authorize"
	defaultTokenURL   = "https://nid.naver.com/oauth2.0/token"
	defaultProfileURL = "https://openapi.naver.com/v1/nid/me"
)

var (
	// ErrNoAccessToken marks a nominally successful token response
	// that did not carry an access token.
	ErrNoAccessToken = errors.New("naver did not return access_token")

	// ErrMissingUserID marks a profile payload without a user id.
	ErrMissingUserID = errors.New("naver profile missing user id")
)

type Provider struct {
	oauthConfig *oauth2.Config
	profileURL  string
	httpClient  *http.Client
}

// Option overrides provider endpoints, used by tests to point the
// provider at a local server.
type Option func(*Provider)

func WithEndpoints(authURL, tokenURL, profileURL string) Option {
	return func(p *Provider) {
		p.oauthConfig.Endpoint = oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}
		p.profileURL = profileURL
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
	opts ...Option,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" {
		return nil, errors.New("naver oauth config missing client credentials")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   defaultAuthURL,
			TokenURL:  defaultTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	p := &Provider{
		oauthConfig: oauthCfg,
		profileURL:  defaultProfileURL,
		httpClient:  http.DefaultClient,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the Naver authorization URL. Naver does not
// support PKCE, so codeChallenge is ignored.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

// ExchangeToken exchanges the authorization code for an access token.
// Naver requires the state token at exchange time. Authorization codes
// are single-use upstream: replaying a consumed code fails here.
func (p *Provider) ExchangeToken(
	ctx context.Context,
	code string,
	state string,
) (string, error) {

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("state", state),
	)
	if err != nil {
		logger.Error("naver token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return "", fmt.Errorf("naver token exchange failed: %w", err)
	}

	if token.AccessToken == "" {
		return "", ErrNoAccessToken
	}

	return token.AccessToken, nil
}

// profileEnvelope is Naver's profile response shape: the identity
// fields live under "response", with a result code alongside.
type profileEnvelope struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"response"`
}

// FetchProfile fetches the Naver profile with a bearer access token
// and returns a normalized identity.
func (p *Provider) FetchProfile(
	ctx context.Context,
	accessToken string,
) (*auth.Identity, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("naver profile read failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver profile fetch failed: status %d", resp.StatusCode)
	}

	var envelope profileEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("naver profile parse failed: %w", err)
	}

	if envelope.Response.ID == "" {
		return nil, ErrMissingUserID
	}

	logger.Info("naver profile fetched", map[string]any{
		"resultcode":    envelope.ResultCode,
		"email_present": envelope.Response.Email != "",
		"name_present":  envelope.Response.Name != "",
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: envelope.Response.ID,
		Email:          envelope.Response.Email,
		// Naver only returns emails it has verified itself.
		EmailVerified: envelope.Response.Email != "",
		DisplayName:   envelope.Response.Name,
	}, nil
}

// ExchangeCode satisfies provider.OAuthProvider by composing the
// token exchange and profile fetch.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	state string,
	codeVerifier string,
) (*auth.Identity, error) {

	accessToken, err := p.ExchangeToken(ctx, code, state)
	if err != nil {
		return nil, err
	}

	return p.FetchProfile(ctx, accessToken)
}
