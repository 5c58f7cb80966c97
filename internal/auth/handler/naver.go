package handler

import (
	"fmt"
	"net/http"

	"github.com/adelie22/Artivora/internal/auth"
	"github.com/adelie22/Artivora/internal/auth/credential"
	"github.com/adelie22/Artivora/internal/logger"
	"github.com/adelie22/Artivora/internal/relay"
	"github.com/adelie22/Artivora/internal/user"

	"github.com/gin-gonic/gin"
)

// naverLoginRequest mirrors the callable-function envelope the
// original front end sends: {"data": {"code": ..., "state": ...}}.
type naverLoginRequest struct {
	Data struct {
		Code  string `json:"code"`
		State string `json:"state"`
	} `json:"data"`
}

// naverLogin is the bridge endpoint: authorization code in, federated
// credential out. Success: 200 {"data":{"token":...}}. Failure: 500
// {"error":{"message":...}} with a user-displayable message.
func (h *Handler) naverLogin(c *gin.Context) {
	var req naverLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "invalid request body"},
		})
		return
	}

	if req.Data.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "authorization code is required"},
		})
		return
	}

	token, bridgeErr := h.bridge.Exchange(
		c.Request.Context(),
		req.Data.Code,
		req.Data.State,
	)
	if bridgeErr != nil {
		logger.Error("naver bridge failed", map[string]any{
			"kind":  string(bridgeErr.Kind),
			"error": bridgeErr.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"message": bridgeErr.Message},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"token": token},
	})
}

// beginNaverAttempt bootstraps a popup login. The opener calls this,
// subscribes to /ws/login with the returned attempt id, then opens
// the returned URL in the popup. The attempt id doubles as the OAuth
// state token; the state cookie set here is what the callback
// validates.
func (h *Handler) beginNaverAttempt(c *gin.Context) {
	p, err := h.providers.Get("naver")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "naver login is not configured",
		})
		return
	}

	state := generateState(c)
	authURL := p.AuthCodeURL(state, "")

	c.JSON(http.StatusOK, gin.H{
		"attemptId": state,
		"authUrl":   authURL,
	})
}

// naverCallback is the popup's landing page after the provider
// redirect. It completes the login server-side and reports the result
// to the opener through the relay; the rendered page only shows
// status text and closes itself.
func (h *Handler) naverCallback(c *gin.Context) {
	state := c.Query("state")

	// Consent denied or provider error: nothing to exchange.
	if errParam := c.Query("error"); errParam != "" {
		errDesc := c.Query("error_description")
		if errDesc == "" {
			errDesc = errParam
		}
		message := "Naver authentication failed: " + errDesc
		h.relay.Publish(state, relay.Error(message))
		h.renderPopup(c, http.StatusOK, message, popupCloseDelayed)
		return
	}

	code := c.Query("code")
	if code == "" || !validateState(c) {
		message := "Naver authentication failed: invalid callback"
		h.relay.Publish(state, relay.Error(message))
		h.renderPopup(c, http.StatusBadRequest, message, popupCloseDelayed)
		return
	}

	token, bridgeErr := h.bridge.Exchange(c.Request.Context(), code, state)
	if bridgeErr != nil {
		h.relay.Publish(state, relay.Error(bridgeErr.Message))
		h.renderPopup(c, http.StatusInternalServerError, bridgeErr.Message, popupCloseDelayed)
		return
	}

	if _, err := h.signInWithIssuedToken(c, token); err != nil {
		message := "Sign-in with issued credential failed."
		h.relay.Publish(state, relay.Error(message))
		h.renderPopup(c, http.StatusInternalServerError, message, popupCloseDelayed)
		return
	}

	h.relay.Publish(state, relay.Success())
	h.renderPopup(c, http.StatusOK, "Signed in. You can close this window.", popupCloseNow)
}

// signInWithIssuedToken redeems a federated credential (single use)
// and opens a session for the bound identity.
func (h *Handler) signInWithIssuedToken(c *gin.Context, tokenString string) (*user.User, error) {
	key, claims, err := h.issuer.Redeem(c.Request.Context(), tokenString)
	if err != nil {
		return nil, err
	}

	identity, err := auth.ParseKey(key)
	if err != nil {
		return nil, err
	}
	identity.Email = claims.Email
	identity.DisplayName = claims.DisplayName
	identity.EmailVerified = claims.Email != ""

	return h.openSession(c, &identity)
}

type signInRequest struct {
	Token string `json:"token"`
}

// SignInWithToken lets a client that called /naverLogin itself redeem
// the credential for a session. The credential is single-use: a
// second redemption fails.
func (h *Handler) SignInWithToken(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	u, err := h.signInWithIssuedToken(c, req.Token)
	if err != nil {
		status := http.StatusInternalServerError
		if err == credential.ErrInvalid || err == credential.ErrAlreadyUsed {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": "sign-in failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "authenticated",
		"user":   u,
	})
}

type popupClose int

const (
	popupCloseNow popupClose = iota
	popupCloseDelayed // leave the message readable for 3 seconds
)

func (h *Handler) renderPopup(c *gin.Context, status int, message string, close popupClose) {
	delay := 0
	if close == popupCloseDelayed {
		delay = 3000
	}

	page := fmt.Sprintf(popupTemplate, message, delay)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

const popupTemplate = `<!doctype html>
<html>
<body>
<p id="status">%s</p>
<script>setTimeout(function () { window.close(); }, %d);</script>
</body>
</html>`
