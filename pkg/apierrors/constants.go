package apierrors

import "net/http"

type Kind string

const (
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindForbidden         Kind = "FORBIDDEN"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Status maps an error kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const (
	MsgUnauthenticated    = "unauthenticated"
	MsgInvalidCredentials = "invalidCredentials"
	MsgForbidden          = "forbidden"
	MsgInvalidTransition  = "invalidTransition"
	MsgConflict           = "conflict"
	MsgUsernameTaken      = "usernameTaken"
	MsgEmailTaken         = "emailTaken"
	MsgTaskNotFound       = "taskNotFound"
	MsgUserNotFound       = "userNotFound"
	MsgCommentNotFound    = "commentNotFound"
	MsgRouteNotFound      = "routeNotFound"
	MsgInternal           = "internalError"

	MsgValidationRequired   = "validationRequired"
	MsgValidationTooLong    = "validationTooLong"
	MsgValidationTooShort   = "validationTooShort"
	MsgValidationInvalid    = "validationInvalid"
	MsgValidationUnknownKey = "validationUnknownKey"
	MsgValidationInactive   = "validationInactive"
)

var validationMessages = map[string]string{
	"required":   MsgValidationRequired,
	"tooLong":    MsgValidationTooLong,
	"tooShort":   MsgValidationTooShort,
	"invalid":    MsgValidationInvalid,
	"unknownKey": MsgValidationUnknownKey,
	"inactive":   MsgValidationInactive,
}

// ValidationMessage returns the message key for a validation reason.
func ValidationMessage(reason string) string {
	if key, ok := validationMessages[reason]; ok {
		return key
	}
	return MsgValidationInvalid
}
