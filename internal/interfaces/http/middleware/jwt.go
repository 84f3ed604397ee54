package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	ActorKey      = "auth_actor"
	UserIDKey     = "auth_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// RequireAuth validates the bearer token and stores the resolved actor in
// the request context. Requests without a valid token are rejected.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, jwtService)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(code, "Authentication required", GetRequestID(c)))
			return
		}
		setActor(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a valid token is present and falls
// back to the anonymous actor otherwise. Guest checkout runs behind this.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, jwtService)
		if err != nil {
			c.Set(ActorKey, identity.Anonymous())
			c.Next()
			return
		}
		setActor(c, claims)
		c.Next()
	}
}

func extractClaims(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return nil, auth.ErrInvalidToken
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	return jwtService.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
}

func setActor(c *gin.Context, claims *auth.Claims) {
	c.Set(ActorKey, claims.Actor())
	c.Set(UserIDKey, claims.UserID)
}

// GetActor returns the request's acting identity, anonymous when the request
// carried no valid token.
func GetActor(c *gin.Context) identity.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(identity.Actor); ok {
			return actor
		}
	}
	return identity.Anonymous()
}

// GetUserID returns the authenticated user's ID, or nil for guests
func GetUserID(c *gin.Context) *uuid.UUID {
	idStr := c.GetString(UserIDKey)
	if idStr == "" {
		return nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	return &id
}
