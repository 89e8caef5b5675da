package apierrors

import (
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// Now is the clock used for envelope timestamps.
var Now = time.Now

// JsonErr is the error envelope returned by every endpoint.
type JsonErr struct {
	ErrorKind Kind   `json:"errorKind"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("Kind: %s, Field: %s, Message: %s", e.ErrorKind, e.Field, e.Message)
	}
	return fmt.Sprintf("Kind: %s, Message: %s", e.ErrorKind, e.Message)
}

// Status returns the HTTP status code of the envelope.
func (e JsonErr) Status() int {
	return e.ErrorKind.Status()
}

// CreateError generates a JsonErr with a translated message.
func CreateError(kind Kind, msgKey string, lang string) JsonErr {
	return JsonErr{
		ErrorKind: kind,
		Message:   GetTransErrorMsg(msgKey, lang, nil),
		Timestamp: Now().UTC().Format(time.RFC3339),
	}
}

// CreateFieldError generates a VALIDATION_ERROR naming the offending field.
func CreateFieldError(field, reason, lang string) JsonErr {
	return JsonErr{
		ErrorKind: KindValidation,
		Message:   GetTransErrorMsg(ValidationMessage(reason), lang, map[string]any{"Field": field}),
		Field:     field,
		Timestamp: Now().UTC().Format(time.RFC3339),
	}
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string, data map[string]any) string {
	if translator.Translator == nil {
		return msgKey
	}
	l := i18n.NewLocalizer(translator.Translator, lang, translator.LanguageEn)
	m := i18n.LocalizeConfig{
		MessageID:    msgKey,
		TemplateData: data,
	}
	msg, err := l.Localize(&m)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
