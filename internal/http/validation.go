package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/library/internal/circulation"
)

var registerOnce sync.Once

// RegisterValidators adds the custom rules to gin's binding engine and makes
// validation errors report JSON field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("future", validateFuture)
	})
}

// validateFuture accepts a time.Time or a date string later than the
// current time.
func validateFuture(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case time.Time:
		return value.After(time.Now())
	case string:
		due, err := circulation.ParseDueDate(value)
		return err == nil && due.After(time.Now())
	default:
		return false
	}
}

// trimmer is implemented by request bodies that strip surrounding
// whitespace from their fields before validation.
type trimmer interface {
	trim()
}

// bindJSON decodes the request body into req, trims it when it supports
// trimming, then validates it. On failure it responds with 400 and
// returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		respondBadRequest(c, decodeMessage(err))
		return false
	}
	if t, ok := req.(trimmer); ok {
		t.trim()
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		respondBadRequest(c, validationMessage(err))
		return false
	}
	return true
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		if isNumber(typeErr.Type) {
			return fmt.Sprintf("%q must be a number", typeErr.Field)
		}
		return fmt.Sprintf("%q has an invalid type", typeErr.Field)
	default:
		return "Invalid request body"
	}
}

func isNumber(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// validationMessage joins one message per failed field with commas.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fieldMessage(fe))
	}
	return strings.Join(messages, ",")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%q length must be %s characters long", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "future":
		return circulation.MsgDueDateNotInFuture
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
