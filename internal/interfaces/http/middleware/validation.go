package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors name fields by their JSON (or
// query) name, so details match what the client sent.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

// FormatValidationErrors builds the VALIDATION_ERROR envelope. Field
// failures become one detail each; a value of the wrong JSON type is
// reported against its field; anything else is reported against "body".
func FormatValidationErrors(err error, requestID string) dto.Response {
	return dto.NewValidationErrorResponse("Request validation failed", requestID, validationDetails(err))
}

// HandleValidationError writes a 400 validation response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationDetails(err error) []dto.ValidationDetail {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fieldErrs):
		details := make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return details
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return []dto.ValidationDetail{{Field: typeErr.Field, Message: "Must be a " + typeErr.Type.String()}}
	case errors.As(err, &syntaxErr):
		return []dto.ValidationDetail{{Field: "body", Message: "Malformed JSON"}}
	default:
		return []dto.ValidationDetail{{Field: "body", Message: err.Error()}}
	}
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: ",
	"gte":      "Must be greater than or equal to ",
	"gt":       "Must be greater than ",
	"dive":     "Invalid list entry",
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		bound := "at least "
		if fe.Tag() == "max" {
			bound = "at most "
		}
		switch fe.Kind() {
		case reflect.String:
			return "Must be " + bound + fe.Param() + " characters"
		case reflect.Slice:
			return "Must have " + bound + fe.Param() + " entries"
		default:
			return "Must be " + bound + fe.Param()
		}
	case "oneof", "gte", "gt":
		return tagMessages[fe.Tag()] + fe.Param()
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "Invalid value"
}
