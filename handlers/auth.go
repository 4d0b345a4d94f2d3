package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pollboard/pollboard/backend/go-services/internal/authclient"
	"github.com/pollboard/pollboard/backend/go-services/internal/config"
	"github.com/pollboard/pollboard/backend/go-services/internal/models"
	"github.com/pollboard/pollboard/backend/go-services/internal/sessions"
	"github.com/pollboard/pollboard/backend/go-services/internal/tokens"
	"github.com/pollboard/pollboard/backend/go-services/internal/users"
	"github.com/pollboard/pollboard/backend/go-services/pkg/logger"
	"github.com/pollboard/pollboard/backend/go-services/pkg/metrics"
	"github.com/pollboard/pollboard/backend/go-services/pkg/middleware"
)

// RegisterRequest creates a new account on the auth provider.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest exchanges credentials for tokens.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler bridges the external auth provider and local sessions. The
// provider client is injected so tests can run against a fake.
type AuthHandler struct {
	cfg         *config.Config
	provider    authclient.Client
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, provider authclient.Client, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: provider, usersSvc: u, sessionsSvc: s}
}

// Register routes under /auth plus the identity lookups under the API group.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.SignUp)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
	a.POST("/logout-all", h.LogoutAll)
}

func (h *AuthHandler) accessTTL() time.Duration {
	return h.cfg.JWT.AccessTokenTTL
}

func (h *AuthHandler) refreshTTL() time.Duration {
	return h.cfg.JWT.RefreshTokenTTL
}

// issueTokens mints the access token and refresh session for a user.
func (h *AuthHandler) issueTokens(c *gin.Context, u *models.User, providerToken string) (gin.H, bool) {
	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.Sub, providerToken, h.refreshTTL())
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return nil, false
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.accessTTL())
	if err != nil {
		logger.Errorf("failed to create access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return nil, false
	}
	return gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         u,
		"expiresIn":    int(h.accessTTL().Seconds()),
	}, true
}

// SignUp registers the account with the provider and signs the user in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	identity, err := h.provider.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("register").Inc()
		// provider message passes through so the client sees the real reason
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.UpsertFromIdentity(ctx, identity)
	if err != nil || u == nil {
		logger.Errorf("user upsert after register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user upsert failed"})
		return
	}
	// a fresh signup has no provider session token yet
	resp, ok := h.issueTokens(c, u, "")
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login exchanges email/password for a provider session and local tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	providerToken, err := h.provider.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("login").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	identity, err := h.provider.GetUser(ctx, providerToken)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("login").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.UpsertFromIdentity(ctx, identity)
	if err != nil || u == nil {
		logger.Errorf("user upsert after login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user upsert failed"})
		return
	}
	resp, ok := h.issueTokens(c, u, providerToken)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token and mints a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	sess, err := h.sessionsSvc.ValidateRefresh(ctx, req.RefreshToken)
	if err != nil {
		logger.Errorf("refresh validation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh validation failed"})
		return
	}
	if sess == nil {
		metrics.AuthFailures.WithLabelValues("refresh").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.usersSvc.GetBySub(ctx, sess.Sub)
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	fresh, err := h.sessionsSvc.Rotate(ctx, sess, h.refreshTTL())
	if err != nil {
		logger.Errorf("refresh rotation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.accessTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": fresh,
		"expiresIn":    int(h.accessTTL().Seconds()),
	})
}

// Logout removes the refresh session, blacklists the presented access token
// and revokes the upstream provider session when one is known.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	if auth := c.GetHeader("Authorization"); auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := sessions.BlacklistAccessToken(ctx, at, ttl); err != nil {
						logger.Warnf("failed to blacklist access token: %v", err)
					}
				}
			}
		}
	}

	sess, err := h.sessionsSvc.ValidateRefresh(ctx, req.RefreshToken)
	if err == nil && sess != nil && sess.ProviderToken != "" {
		if err := h.provider.SignOut(ctx, sess.ProviderToken); err != nil {
			logger.Warnf("provider sign-out failed: %v", err)
		}
	}
	if err := h.sessionsSvc.DeleteRefresh(ctx, req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// LogoutAll revokes every refresh session of the user behind the presented
// refresh token, for signing out of all devices at once.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	sess, err := h.sessionsSvc.ValidateRefresh(ctx, req.RefreshToken)
	if err != nil {
		logger.Errorf("logout-all validation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh validation failed"})
		return
	}
	if sess == nil {
		metrics.AuthFailures.WithLabelValues("logout_all").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	if auth := c.GetHeader("Authorization"); auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				if ttl := time.Until(exp); ttl > 0 {
					if err := sessions.BlacklistAccessToken(ctx, at, ttl); err != nil {
						logger.Warnf("failed to blacklist access token: %v", err)
					}
				}
			}
		}
	}
	if sess.ProviderToken != "" {
		if err := h.provider.SignOut(ctx, sess.ProviderToken); err != nil {
			logger.Warnf("provider sign-out failed: %v", err)
		}
	}
	if err := h.sessionsSvc.RevokeAll(ctx, sess.Sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out everywhere"})
}

// parseExpFromJWT decodes the JWT payload and returns the exp claim. Payload
// only parsing, no signature check; used to size blacklist TTLs.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		b, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	return time.Unix(int64(exp), 0), nil
}

// IdentityHandler serves the current user and session lookups. Both answer
// 200 for anonymous callers instead of erroring, so frontends can check auth
// state without handling failures.
type IdentityHandler struct {
	usersSvc *users.Service
}

func NewIdentityHandler(u *users.Service) *IdentityHandler {
	return &IdentityHandler{usersSvc: u}
}

// Register routes under the optionally-authenticated API group.
func (h *IdentityHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.GET("/session", h.Session)
}

// Me returns the caller's user record, or {"user": null} when anonymous or
// unknown locally.
func (h *IdentityHandler) Me(c *gin.Context) {
	sub := middleware.SubjectFromContext(c)
	if sub == "" {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	u, err := h.usersSvc.GetBySub(c.Request.Context(), sub)
	if err != nil {
		logger.Errorf("me lookup failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Session reports whether the caller holds a valid access token.
func (h *IdentityHandler) Session(c *gin.Context) {
	sub := middleware.SubjectFromContext(c)
	if sub == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "sub": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "sub": sub})
}
