package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_tracker/internal/auth"
)

const userIDKey = "auth.user_id"

// authHandler implements the login endpoint.
type authHandler struct {
	authService *auth.Service
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *authHandler {
	return &authHandler{
		authService: authService,
		logger:      logger,
	}
}

// handleLogin handles POST /login and returns a bearer session token.
func (h *authHandler) handleLogin(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	token, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("sign-in failed unexpectedly", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

// RequireAuth verifies the bearer token and stores the user ID on the
// request context for handlers downstream.
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := authService.Verify(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}

// currentUserID returns the authenticated user ID set by RequireAuth,
// or "" when the request is unauthenticated.
func currentUserID(ctx *gin.Context) string {
	v, _ := ctx.Get(userIDKey)
	id, _ := v.(string)
	return id
}
