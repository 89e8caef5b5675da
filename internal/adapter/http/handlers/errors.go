package handlers

import (
	"encoding/json"
	"errors"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/validation"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var sentinelErrors = []struct {
	err    error
	kind   apierrors.Kind
	msgKey string
}{
	{domain.ErrUnauthenticated, apierrors.KindUnauthenticated, apierrors.MsgUnauthenticated},
	{domain.ErrInvalidCredentials, apierrors.KindUnauthenticated, apierrors.MsgInvalidCredentials},
	{domain.ErrForbidden, apierrors.KindForbidden, apierrors.MsgForbidden},
	{domain.ErrInvalidTransition, apierrors.KindInvalidTransition, apierrors.MsgInvalidTransition},
	{domain.ErrConflict, apierrors.KindConflict, apierrors.MsgConflict},
	{domain.ErrUsernameTaken, apierrors.KindConflict, apierrors.MsgUsernameTaken},
	{domain.ErrEmailTaken, apierrors.KindConflict, apierrors.MsgEmailTaken},
	{domain.ErrTaskNotFound, apierrors.KindNotFound, apierrors.MsgTaskNotFound},
	{domain.ErrUserNotFound, apierrors.KindNotFound, apierrors.MsgUserNotFound},
	{domain.ErrCommentNotFound, apierrors.KindNotFound, apierrors.MsgCommentNotFound},
}

// respondError is the single place where errors become HTTP responses.
func respondError(c *gin.Context, err error, logMsg string, fields ...zap.Field) {
	lang := middleware.GetLang(c)

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(
			apierrors.KindValidation.Status(),
			apierrors.CreateFieldError(validationErr.Field, validationErr.Reason, lang),
		)
		return
	}

	for _, sentinel := range sentinelErrors {
		if errors.Is(err, sentinel.err) {
			c.JSON(sentinel.kind.Status(), apierrors.CreateError(sentinel.kind, sentinel.msgKey, lang))
			return
		}
	}

	zap.L().Error(logMsg, append(fields, zap.Error(err))...)
	_ = c.Error(err)
	c.JSON(
		apierrors.KindInternal.Status(),
		apierrors.CreateError(apierrors.KindInternal, apierrors.MsgInternal, lang),
	)
}

// currentUser reads the caller set by the auth middleware. Routes are only registered
// behind that middleware, so a miss means the request is unauthenticated.
func currentUser(c *gin.Context) (domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated, "")
	}
	return user, ok
}

// decodeBody decodes and validates a JSON body, answering the request itself on failure.
func decodeBody(c *gin.Context, dst any) (map[string]json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, domain.NewValidationError("body", domain.ReasonInvalid), "")
		return nil, false
	}
	raw, err := validation.DecodeJSON(body, dst)
	if err != nil {
		respondError(c, err, "")
		return nil, false
	}
	return raw, true
}
