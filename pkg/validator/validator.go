package validator

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// FieldErrors maps a field's JSON name to a human readable message
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct validates a struct based on validate tags and returns every
// failing field, keyed by its json name. It returns nil when the struct is valid.
//
// Supported rules: required, email, url, min=N, max=N (string length, or
// numeric bounds for ints and *int), oneof=a b c.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return errors.New("not a struct")
	}

	errs := FieldErrors{}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)
		tag := field.Tag.Get("validate")

		if tag == "" {
			continue
		}

		name := fieldName(field)
		for _, rule := range strings.Split(tag, ",") {
			if msg := validateField(value, rule); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// validateField checks one rule and returns a message on failure
func validateField(value reflect.Value, rule string) string {
	// optional pointers only get checked when set
	if value.Kind() == reflect.Ptr && rule != "required" {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}

	switch {
	case rule == "required":
		if isZero(value) {
			return "is required"
		}
	case rule == "email":
		if value.Kind() == reflect.String && value.String() != "" {
			if err := ValidateEmail(value.String()); err != nil {
				return "must be a valid email"
			}
		}
	case rule == "url":
		if value.Kind() == reflect.String && value.String() != "" {
			if err := ValidateURL(value.String()); err != nil {
				return "must be a valid http(s) URL"
			}
		}
	case strings.HasPrefix(rule, "min="):
		n, _ := strconv.Atoi(strings.TrimPrefix(rule, "min="))
		switch value.Kind() {
		case reflect.String:
			if utf8.RuneCountInString(value.String()) < n {
				return fmt.Sprintf("must be at least %d characters", n)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if value.Int() < int64(n) {
				return fmt.Sprintf("must be at least %d", n)
			}
		}
	case strings.HasPrefix(rule, "max="):
		n, _ := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		switch value.Kind() {
		case reflect.String:
			if utf8.RuneCountInString(value.String()) > n {
				return fmt.Sprintf("must be at most %d characters", n)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if value.Int() > int64(n) {
				return fmt.Sprintf("must be at most %d", n)
			}
		case reflect.Slice:
			if value.Len() > n {
				return fmt.Sprintf("must have at most %d entries", n)
			}
		}
	case strings.HasPrefix(rule, "oneof="):
		allowed := strings.Fields(strings.TrimPrefix(rule, "oneof="))
		if value.Kind() == reflect.String {
			for _, a := range allowed {
				if value.String() == a {
					return ""
				}
			}
			return "must be one of: " + strings.Join(allowed, ", ")
		}
	}
	return ""
}

// isZero checks if a value is zero/empty
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return false
	}
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("invalid url")
	}
	return nil
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// SanitizeString sanitizes a string by removing potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	email = SanitizeString(email)
	email = strings.ToLower(email)
	return email
}
