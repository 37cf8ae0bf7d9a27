package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/SscSPs/pocket_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, password login, Google ID token login and logout.
type AuthHandler struct {
	identityService portssvc.IdentitySvcFacade
	sessionService  portssvc.SessionSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity portssvc.IdentitySvcFacade, sessions portssvc.SessionSvcFacade) *AuthHandler {
	return &AuthHandler{identityService: identity, sessionService: sessions}
}

// registerAuthRoutes sets up the public authentication routes. loginLimit guards /login.
func registerAuthRoutes(auth *gin.RouterGroup, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := NewAuthHandler(services.Identity, services.Session)

	auth.POST("/register", h.Register)
	auth.POST("/login", loginLimit, h.Login)
	auth.POST("/google", loginLimit, h.LoginWithGoogle)
}

// registerSessionRoutes sets up the authenticated session routes.
func registerSessionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Identity, services.Session)

	rg.POST("/auth/logout", h.Logout)
	rg.GET("/me", h.Me)
}

// Register godoc
// @Summary Register new identity
// @Description Creates an identity keyed by email. The password is stored as a bcrypt hash.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration Info"
// @Success 201 {object} dto.IdentityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, err := h.identityService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdentityResponse(identity))
}

// Login godoc
// @Summary Password login
// @Description Verifies credentials and issues a session-backed JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, err := h.identityService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	h.issueSession(c, identity)
}

// LoginWithGoogle godoc
// @Summary Google ID token login
// @Description Validates a Google ID token, registers its email on first sight and issues a session-backed JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) LoginWithGoogle(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, err := h.identityService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err, "Failed to log in with Google")
		return
	}

	h.issueSession(c, identity)
}

func (h *AuthHandler) issueSession(c *gin.Context, identity *domain.Identity) {
	token, session, err := h.sessionService.IssueSession(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Session issued",
		slog.String("owner", identity.Email), slog.String("session_id", session.SessionID))
	c.JSON(http.StatusOK, dto.ToLoginResponse(token, session))
}

// Logout godoc
// @Summary Log out
// @Description Revokes the calling session, or every session of the caller when allSessions is true.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.LogoutRequest false "Logout options"
// @Success 200 {object} dto.LogoutResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req dto.LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	if req.AllSessions {
		revoked, err := h.sessionService.RevokeAllSessions(c.Request.Context(), owner)
		if err != nil {
			respondError(c, err, "Failed to log out")
			return
		}
		c.JSON(http.StatusOK, dto.LogoutResponse{Revoked: revoked})
		return
	}

	if err := h.sessionService.RevokeSession(c.Request.Context(), sessionID, owner); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, dto.LogoutResponse{Revoked: 1})
}

// Me godoc
// @Summary Current identity
// @Tags auth
// @Produce json
// @Success 200 {object} dto.IdentityResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	identity, err := h.identityService.GetIdentity(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to load identity")
		return
	}
	c.JSON(http.StatusOK, dto.ToIdentityResponse(identity))
}
