package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/SscSPs/pocket_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler drives the authorization-code flow used by the web frontend.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthSvcFacade
	sessionService     portssvc.SessionSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(oauth portssvc.GoogleOAuthSvcFacade, sessions portssvc.SessionSvcFacade) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{googleOAuthService: oauth, sessionService: sessions}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes under the public auth group.
func registerGoogleOAuthRoutes(auth *gin.RouterGroup, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := NewGoogleOAuthHandler(services.GoogleOAuth, services.Session)
	googleRoutes := auth.Group("/google")
	{
		googleRoutes.GET("/login", h.LoginURL)
		googleRoutes.POST("/exchange-code", loginLimit, h.ExchangeCode)
	}
}

// LoginURL godoc
// @Summary Google login URL
// @Description Returns the Google consent URL and the CSRF state the client must keep.
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginURL(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondError(c, err, "Failed to start Google login")
		return
	}
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GoogleLoginURL(ctx, state),
		State: state,
	})
}

// ExchangeCode godoc
// @Summary Exchange authorization code for access token
// @Description Exchanges the code Google returned to the frontend, registers the email on first sight and issues a session-backed JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Google could not be reached"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, err := h.googleOAuthService.ExchangeGoogleCode(ctx, req.Code)
	if err != nil {
		respondError(c, err, "Failed to exchange authorization code")
		return
	}

	token, session, err := h.sessionService.IssueSession(ctx, identity)
	if err != nil {
		respondError(c, err, "Failed to generate access token")
		return
	}
	logger.InfoContext(ctx, "Identity signed in via Google", slog.String("owner", identity.Email))

	c.JSON(http.StatusOK, dto.ToLoginResponse(token, session))
}
