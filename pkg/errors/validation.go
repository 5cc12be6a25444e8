package errors

import (
	"strings"
	"unicode"
)

// MaxProgramLength bounds the base64 text of a program accepted from the
// command line or a file.
const MaxProgramLength = 4 << 20

// ValidateProgramText validates base64 program text before decoding.
//
// The validation rules are intentionally conservative:
//   - No empty input
//   - Maximum length of MaxProgramLength characters
//   - No control characters other than whitespace
func ValidateProgramText(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return New(ErrCodeInvalidInput, "program cannot be empty")
	}

	if len(s) > MaxProgramLength {
		return New(ErrCodeInvalidInput, "program too long (max %d characters)", MaxProgramLength)
	}

	for _, r := range s {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "program contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates the path an artifact is written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}

	return nil
}

// ValidateChoice checks that value is one of allowed. kind names the setting
// in the error message.
func ValidateChoice(kind, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "invalid %s %q (want one of: %s)", kind, value, strings.Join(allowed, ", "))
}
