package employee

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationMode selects how much the server checks before touching storage.
type ValidationMode string

const (
	// ValidationStrict checks presence and the client's format rules.
	ValidationStrict ValidationMode = "strict"
	// ValidationPresence only checks that every field is present.
	ValidationPresence ValidationMode = "presence"
)

func ParseValidationMode(value string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ValidationStrict:
		return ValidationStrict, nil
	case ValidationPresence:
		return ValidationPresence, nil
	default:
		return "", fmt.Errorf("unknown validation mode %q", value)
	}
}

const minNameLength = 2

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks a create or update payload. Missing fields are reported as
// one aggregate failure before any format rule runs.
func Validate(in Input, mode ValidationMode) error {
	in = in.Normalized()
	if in.Name == "" || in.Email == "" || in.Department == "" || in.Status == "" {
		return validationError("", MsgFieldsRequired)
	}
	if mode == ValidationPresence {
		return nil
	}
	if utf8.RuneCountInString(in.Name) < minNameLength {
		return validationError("name", MsgNameTooShort)
	}
	if !emailPattern.MatchString(in.Email) {
		return validationError("email", MsgInvalidEmail)
	}
	return nil
}
