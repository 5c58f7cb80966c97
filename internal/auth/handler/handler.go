package handler

import (
	"net/http"

	"github.com/adelie22/Artivora/internal/auth"
	"github.com/adelie22/Artivora/internal/auth/bridge"
	"github.com/adelie22/Artivora/internal/auth/credential"
	"github.com/adelie22/Artivora/internal/auth/credentials"
	"github.com/adelie22/Artivora/internal/auth/provider"
	"github.com/adelie22/Artivora/internal/auth/resolver"
	"github.com/adelie22/Artivora/internal/logger"
	"github.com/adelie22/Artivora/internal/relay"
	"github.com/adelie22/Artivora/internal/session"
	"github.com/adelie22/Artivora/internal/user"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Providers         *provider.Registry
	SessionStore      session.Store
	Resolver          resolver.Resolver
	CredentialService *credentials.Service
	Bridge            *bridge.Bridge
	Issuer            *credential.Issuer
	Relay             *relay.Relay
	Users             *user.Store
	PublicOrigin      string
}

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	resolver          resolver.Resolver
	credentialService *credentials.Service
	bridge            *bridge.Bridge
	issuer            *credential.Issuer
	relay             *relay.Relay
	users             *user.Store
	origin            string
}

func NewHandler(deps Deps) *Handler {
	return &Handler{
		providers:         deps.Providers,
		sessionStore:      deps.SessionStore,
		resolver:          deps.Resolver,
		credentialService: deps.CredentialService,
		bridge:            deps.Bridge,
		issuer:            deps.Issuer,
		relay:             deps.Relay,
		users:             deps.Users,
		origin:            deps.PublicOrigin,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Bridge surface, shaped like the callable it replaces.
	r.POST("/naverLogin", h.naverLogin)

	// Popup flow: attempt bootstrap, popup return, opener result
	// channel.
	r.POST("/auth/attempts/naver", h.beginNaverAttempt)
	r.GET("/naver_callback", h.naverCallback)
	r.GET("/ws/login", h.loginResult)

	// Credential redemption and native auth.
	r.POST("/auth/token", h.SignInWithToken)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	// Full-page OAuth flow (google).
	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)

	logger.Info("auth routes registered", map[string]any{
		"providers": h.providers.Names(),
	})
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	errParam := c.Query("error")
	errDesc := c.Query("error_description")

	// Consent denied or provider-side error: back to login, nothing
	// to authenticate.
	if errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     errDesc,
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		c.Query("state"),
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	u, err := h.openSession(c, identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to establish session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "authenticated",
		"user":   u,
	})
}

// openSession resolves the identity to a user, persists a session and
// sets the cookie. Shared by every sign-in path.
func (h *Handler) openSession(c *gin.Context, identity *auth.Identity) (*user.User, error) {
	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(userID, identity.Provider)
	if err != nil {
		return nil, err
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return nil, err
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login succeeded", map[string]any{
		"user_id":  userID,
		"provider": identity.Provider,
		"ip":       c.ClientIP(),
	})

	return h.users.GetByID(c.Request.Context(), userID)
}

func (h *Handler) Logout(c *gin.Context) {

	// 1. Read session cookie (same pattern as auth middleware)
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// 2. Delete session from store (best-effort)
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
		logger.Info("logout", map[string]any{
			"ip": c.ClientIP(),
		})
	}

	// 3. Clear cookie (must pass options)
	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// 4. Idempotent response
	c.Status(http.StatusNoContent)
}
