package middleware

import (
	"errors"
	"strings"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"
	"github.com/vijaynvb/fullstackapp/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	HeaderUserID = "X-User-Id"

	currentUserKey  = "currentUser"
	currentTokenKey = "currentToken"
)

// AuthMiddleware requires a live bearer session whose owner matches the X-User-Id header.
func AuthMiddleware(authService ports.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(c)
			return
		}

		user, err := authService.Validate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				zap.L().Error("failed to validate session", zap.Error(err))
				c.AbortWithStatusJSON(
					apierrors.KindInternal.Status(),
					apierrors.CreateError(apierrors.KindInternal, apierrors.MsgInternal, GetLang(c)),
				)
				return
			}
			abortUnauthenticated(c)
			return
		}

		if strings.TrimSpace(c.GetHeader(HeaderUserID)) != user.ID {
			zap.L().Debug("identity header does not match session owner", zap.String("user_id", user.ID))
			abortUnauthenticated(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(currentTokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller set by AuthMiddleware.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(currentTokenKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(
		apierrors.KindUnauthenticated.Status(),
		apierrors.CreateError(apierrors.KindUnauthenticated, apierrors.MsgUnauthenticated, GetLang(c)),
	)
}
