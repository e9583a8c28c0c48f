package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidate()

	mu       sync.RWMutex
	messages = map[string]string{
		"required":  "is required",
		"latitude":  "must be a valid latitude",
		"longitude": "must be a valid longitude",
		"uri":       "must be a valid URI",
		"url":       "must be a valid URI",
	}
)

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Fields are reported by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RegisterRule adds a custom tag. message is reported for fields failing it.
// Rules are registered from package init functions, before any validation.
func RegisterRule(tag string, fn validator.Func, message string) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
	mu.Lock()
	messages[tag] = message
	mu.Unlock()
}

// Validate checks s against its validate tags.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		return &ValidationError{Errors: fieldErrs}
	}
	return err
}

// Merge combines the field failures of several Validate results. A non-nil
// error that is not a *ValidationError is returned as is.
func Merge(errs ...error) error {
	var merged validator.ValidationErrors
	for _, err := range errs {
		if err == nil {
			continue
		}
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			return err
		}
		merged = append(merged, valErr.Errors...)
	}
	if len(merged) == 0 {
		return nil
	}
	return &ValidationError{Errors: merged}
}

// ValidationError lists the failing fields of one struct.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", fe.Field(), message(fe)))
	}
	return strings.Join(msgs, "; ")
}

// Fields maps JSON field names to messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	mu.RLock()
	msg, ok := messages[fe.Tag()]
	mu.RUnlock()
	if ok {
		return msg
	}
	return fmt.Sprintf("failed on '%s' validation", fe.Tag())
}

// DecodeAndValidate decodes the JSON request body into dst and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return Validate(dst)
}
