package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Authorizer resolves a role's permission matrix and checks it against a
// set of requirements.
type Authorizer interface {
	Authorize(ctx context.Context, roleName string, requirements []identity.ResourcePermission) error
}

// RequirePermission requires the actor's role to grant every listed action
// on the resource. The check is uniform across resources: the role's entry
// must exist and its action set must cover the requirement.
func RequirePermission(authorizer Authorizer, logger *zap.Logger, resource string, actions ...string) gin.HandlerFunc {
	requirements := []identity.ResourcePermission{{Resource: resource, Actions: actions}}

	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor.IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		err := authorizer.Authorize(c.Request.Context(), actor.Role, requirements)
		if err != nil {
			if errors.Is(err, shared.ErrForbidden) {
				logger.Warn("permission denied",
					zap.String("user_id", actor.UserID),
					zap.String("role", actor.Role),
					zap.String("resource", resource),
					zap.Strings("actions", actions))
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Permission denied", GetRequestID(c)))
				return
			}
			logger.Error("permission check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
