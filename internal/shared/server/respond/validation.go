package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"resume-tailor/internal/shared/envelope"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// Validation writes a 422 with a detail list describing the binding error.
func Validation(c *gin.Context, err error) {
	Invalid(c, FieldErrors(err)...)
}

// Invalid writes a 422 with the given field errors.
func Invalid(c *gin.Context, fields ...envelope.FieldError) {
	message := "Validation error"
	if len(fields) > 0 {
		message = fields[0].Msg
	}
	Error(c, http.StatusUnprocessableEntity, "validation_error", message, fields)
}

// Field builds a single body field error.
func Field(name, msg, kind string) envelope.FieldError {
	return envelope.FieldError{Loc: []string{"body", name}, Msg: msg, Type: kind}
}

// FieldErrors converts binding and decoding failures into field errors.
func FieldErrors(err error) []envelope.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]envelope.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			msg, kind := describe(fe)
			out = append(out, Field(fe.Field(), msg, kind))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []envelope.FieldError{Field(field, fmt.Sprintf("value is not a valid %s", typeErr.Type.String()), "type_error")}
	}

	msg := "invalid request body"
	if err != nil {
		msg = err.Error()
	}
	return []envelope.FieldError{{Loc: []string{"body"}, Msg: msg, Type: "value_error.jsondecode"}}
}

func describe(fe validator.FieldError) (string, string) {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": field required", "value_error.missing"
	case "email":
		return fe.Field() + ": value is not a valid email address", "value_error.email"
	case "min":
		return fmt.Sprintf("%s: ensure this value has at least %s characters", fe.Field(), fe.Param()), "value_error.any_str.min_length"
	case "max":
		return fmt.Sprintf("%s: ensure this value has at most %s characters", fe.Field(), fe.Param()), "value_error.any_str.max_length"
	case "gt":
		return fmt.Sprintf("%s: ensure this value is greater than %s", fe.Field(), fe.Param()), "value_error.number.not_gt"
	default:
		return fe.Field() + ": invalid value", "value_error"
	}
}
