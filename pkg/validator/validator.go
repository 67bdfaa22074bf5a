package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/complainthub/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

// Wrap converts a gin binding error into the error taxonomy. Field failures
// become a 422 ValidationError, anything else (malformed body) a 400.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return apperror.NewValidation(FormatValidationErrors(validationErrors)...)
	}
	return apperror.BadRequest(err.Error())
}

func FormatValidationErrors(validationErrors validator.ValidationErrors) []string {
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s: %s", getFieldName(fieldError.Field()), getFieldErrorMessage(fieldError)))
	}
	return messages
}

func getFieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "numeric":
		return "must contain digits only"
	default:
		return "is invalid"
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"NIK":             "nik",
		"Name":            "name",
		"Email":           "email",
		"Password":        "password",
		"Address":         "address",
		"OldPassword":     "old_password",
		"NewPassword":     "new_password",
		"ConfirmPassword": "confirm_password",
		"Title":           "title",
		"Content":         "content",
		"DateEvent":       "date_event",
		"Location":        "location",
		"CategoryID":      "category_id",
		"Description":     "description",
		"Date":            "date",
		"Notes":           "notes",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date and
// reports a 422 for the given field otherwise.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.NewValidation(fmt.Sprintf("%s: must be a valid date", field))
}

// MinLength reports a 422 for field when value, as it will be stored, is
// shorter than min characters.
func MinLength(field, value string, min int) error {
	if utf8.RuneCountInString(value) < min {
		return apperror.NewValidation(fmt.Sprintf("%s: must be at least %d characters", field, min))
	}
	return nil
}
