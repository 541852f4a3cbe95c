package util

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// credit: https://github.com/go-playground/validator/issues/559#issuecomment-976459959

const DateLayout = time.DateOnly

type ApiError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(fe validator.FieldError, customField *map[string]string) string {
	// convert to custom field if exist
	field := fe.Field()
	if customField != nil {
		if name, ok := (*customField)[field]; ok {
			field = name
		}
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%v is required", field)
	case "email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("%v must be at least %v characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%v must be at most %v characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%v must be equal to %v", field, fe.Param())
	case "cdate":
		return fmt.Sprintf("%v must be a date in YYYY-MM-DD format", field)
	case "cmin":
		return fmt.Sprintf("%v must be at least %v non-whitespace characters", field, fe.Param())
	case "cmax":
		return fmt.Sprintf("%v must be at most %v non-whitespace characters", field, fe.Param())
	case "strNotEmpty":
		return fmt.Sprintf("%v must not be empty or contain only whitespace charaters", field)
	case "taskStatus":
		return fmt.Sprintf("%v must be one of 1 (Waiting), 2 (InProgress), 3 (InReview), 4 (Done)", field)
	case "projectStatus":
		return fmt.Sprintf("%v must be one of 0 (Planning), 1 (Active), 2 (Completed)", field)
	}

	log.Printf("Unknown tag: %v with error: %v", fe.Tag(), fe.Error())
	return fe.Error() // default error
}

// messages for service errors; the wording lives here, not in the core
func msgForServiceError(e *service.Error) string {
	subject := e.Entity
	if subject == "" {
		subject = "record"
	}

	switch e.Kind {
	case service.KindValidation:
		if e.Err != nil {
			return upperFirst(e.Err.Error())
		}
		return "Invalid input"
	case service.KindRoleViolation:
		return fmt.Sprintf("Referenced %s has the wrong role", subject)
	case service.KindNotFound:
		return fmt.Sprintf("%s not found", upperFirst(subject))
	case service.KindForbidden:
		return fmt.Sprintf("You do not have access to this %s", subject)
	case service.KindInvalidTransition:
		if e.Err != nil {
			return upperFirst(e.Err.Error())
		}
		return "This status change is not allowed"
	case service.KindUnsupportedFileType:
		return "Allowed file types: pdf, doc, docx, txt, zip, rar, jpg, jpeg, png, gif"
	case service.KindFileTooLarge:
		return fmt.Sprintf("File must be at most %d MB", constant.MaxUploadBytes/(1024*1024))
	case service.KindUnauthenticated:
		return "Invalid email or password"
	default:
		return "Something went wrong, please try again later"
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}

/*
GenerateErrorMessages extracts validation errors and returns them as an array of ApiError.
Each ApiError contains the field name and a descriptive error message.

Example output:

	[
	  {
		"field": "title",
		"message": "title must not be empty or contain only whitespace characters"
	  }
	]

Service errors are rendered with their field (or entity) and a message for their kind.

Optional Parameters:
- customField (map[string]string): A map to override field names in the error messages.
- fieldName (string): A specific field name used when the error carries none.
*/
func GenerateErrorMessages(err error, optionalParams ...any) []ApiError {
	var customField map[string]string
	var fieldName string

	// Parse optional parameters
	for _, param := range optionalParams {
		switch v := param.(type) {
		case map[string]string:
			customField = v
		case string:
			fieldName = v
		}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]ApiError, len(ve))
		for i, fe := range ve {
			field := fe.Field()
			// Use customField if specified and the field exists in the map
			if customFieldName, ok := customField[field]; ok {
				field = customFieldName
			}
			out[i] = ApiError{field, msgForTag(fe, &customField)}
		}
		return out
	}

	field := fieldName
	if field == "" {
		field = "Unknown"
	}

	var se *service.Error
	if errors.As(err, &se) {
		if se.Field != "" {
			field = se.Field
		} else if se.Entity != "" {
			field = se.Entity
		}
		return []ApiError{{Field: field, Message: msgForServiceError(se)}}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []ApiError{{Field: field, Message: "Record not found"}}
	}

	return []ApiError{{Field: field, Message: err.Error()}}
}

// check if string is empty, after trimming spaces
// Usage: `binding:"strNotEmpty"`
func StrNotEmpty(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	return strings.TrimSpace(field.String()) != ""
}

func trimmedRuneLength(fl validator.FieldLevel) (int, int, bool) {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return 0, 0, false
	}

	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return 0, 0, false
	}

	return utf8.RuneCountInString(strings.TrimSpace(field.String())), limit, true
}

// check if string has length of at least the minimum value, after trimming spaces.
// Length is counted in characters, not bytes, so Cyrillic names validate correctly.
// Usage: `binding:"cmin=3"`
func CustomMin(fl validator.FieldLevel) bool {
	n, limit, ok := trimmedRuneLength(fl)
	return ok && n >= limit
}

// check if string has length of at most the maximum value, after trimming spaces
// Usage: `binding:"cmax=3"`
func CustomMax(fl validator.FieldLevel) bool {
	n, limit, ok := trimmedRuneLength(fl)
	return ok && n <= limit
}

// Usage: `binding:"omitempty,cdate"` on a string field
func CustomDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	_, err := time.Parse(DateLayout, strings.TrimSpace(field.String()))
	return err == nil
}

// Usage: `binding:"taskStatus"` on an integer field
func TaskStatus(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return constant.TaskStatus(field.Int()).IsValid()
	default:
		return false
	}
}

// Usage: `binding:"projectStatus"` on an integer field
func ProjectStatus(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return constant.ProjectStatus(field.Int()).IsValid()
	default:
		return false
	}
}

// RegisterValidations installs every custom tag on v.
func RegisterValidations(v *validator.Validate) error {
	validations := map[string]validator.Func{
		"strNotEmpty":   StrNotEmpty,
		"cmin":          CustomMin,
		"cmax":          CustomMax,
		"cdate":         CustomDate,
		"taskStatus":    TaskStatus,
		"projectStatus": ProjectStatus,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}
