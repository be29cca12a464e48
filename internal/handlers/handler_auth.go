package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/fintrack-app/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack-app/fintrack_backend/internal/dto"
	"github.com/fintrack-app/fintrack_backend/internal/middleware"
	"github.com/fintrack-app/fintrack_backend/pkg/config"
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	cfg         *config.Config
}

func newAuthHandler(as portssvc.AuthSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: as,
		cfg:         cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService, cfg)

	// Credential endpoints are rate limited per client IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.logout)
		auth.POST("/google", limitMiddleware, h.loginWithGoogle)
	}
}

// setRefreshCookie stores the rotated refresh token in an HTTP-only cookie
// scoped to the auth endpoints.
func (h *authHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.RefreshTokenExpiryDuration.Seconds())
	c.SetCookie(h.cfg.RefreshTokenCookieName, token, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

func (h *authHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

// register godoc
// @Summary Register new user
// @Description Creates a user account and returns issued tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateUserRequest true "User Registration Info"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to register user")
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	c.JSON(http.StatusCreated, resp)
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns issued tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to log in")
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	c.JSON(http.StatusOK, resp)
}

// refresh godoc
// @Summary Rotate tokens
// @Description Validates the presented refresh token and issues a new pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "User whose token to rotate"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	// Prefer the cookie; fall back to the body for non-browser clients.
	refreshToken, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || refreshToken == "" {
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing refresh token"})
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.UserID, refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondWithError(c, err, "Failed to refresh token")
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	c.JSON(http.StatusOK, resp)
}

// logout godoc
// @Summary Log out
// @Description Invalidates the stored refresh token.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondWithError(c, err, "Failed to log out")
		return
	}

	logger.Info("User logged out", slog.String("user_id", userID))
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// loginWithGoogle godoc
// @Summary Google sign-in
// @Description Exchanges an OAuth authorization code for issued tokens, creating the user on first sign-in.
// @Tags auth
// @Accept json
// @Produce json
// @Param google body dto.GoogleLoginRequest true "OAuth authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *authHandler) loginWithGoogle(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.authService.LoginWithGoogle(c.Request.Context(), req.Code)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Google sign-in failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google sign-in failed"})
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken)
	c.JSON(http.StatusOK, resp)
}
