package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterJSONFieldNames makes validator report fields by their JSON names.
func RegisterJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// DecodeJSON decodes body into dst and also returns the raw top-level fields, so callers
// can tell explicit nulls from omitted fields. dst is validated with the binding rules.
func DecodeJSON(body []byte, dst any) (map[string]json.RawMessage, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, domain.NewValidationError("body", domain.ReasonRequired)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, FromBindError(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, FromBindError(err)
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return nil, FromBindError(err)
	}
	return raw, nil
}

// FromBindError converts decoding and struct validation failures into a field-scoped
// ValidationError.
func FromBindError(err error) *domain.ValidationError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return domain.NewValidationError(fieldName(fe.Field()), reasonForTag(fe.Tag()))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return domain.NewValidationError(fieldName(field), domain.ReasonInvalid)
	}

	var existing *domain.ValidationError
	if errors.As(err, &existing) {
		return existing
	}

	if errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", domain.ReasonRequired)
	}
	return domain.NewValidationError("body", domain.ReasonInvalid)
}

// fieldName strips element indexes and nested paths: "tags[2]" and "tags.2" become "tags".
func fieldName(field string) string {
	if i := strings.IndexAny(field, "[."); i > 0 {
		return field[:i]
	}
	return field
}

func reasonForTag(tag string) string {
	switch tag {
	case "required":
		return domain.ReasonRequired
	case "max":
		return domain.ReasonTooLong
	case "min":
		return domain.ReasonTooShort
	default:
		return domain.ReasonInvalid
	}
}
