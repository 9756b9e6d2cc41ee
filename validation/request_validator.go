// Package validation provides request input validation for the posologie API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/posologie-api/interfaces"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Medication names: alphanumeric + French accents + safe punctuation
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'àâäéèêëïîôöùûüÿç]+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}
)

// RequestValidatorImpl implements the interfaces.RequestValidator interface
type RequestValidatorImpl struct{}

// NewRequestValidator creates a new request validator
func NewRequestValidator() interfaces.RequestValidator {
	return &RequestValidatorImpl{}
}

// ValidateMedicationName validates a medication name from user input and
// returns the normalized lookup key (lower-cased, trimmed).
func (v *RequestValidatorImpl) ValidateMedicationName(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("medication name cannot be empty")
	}

	if len(trimmed) < 2 {
		return "", fmt.Errorf("medication name too short: minimum 2 characters")
	}

	if len(trimmed) > 50 {
		return "", fmt.Errorf("medication name too long: maximum 50 characters")
	}

	// Word count limit to keep contains-searches cheap
	if words := strings.Fields(trimmed); len(words) > 6 {
		return "", fmt.Errorf("medication name too complex: maximum 6 words allowed")
	}

	// Check for potentially dangerous patterns using string matching (faster than regex)
	lowered := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return "", fmt.Errorf("medication name contains potentially dangerous content")
		}
	}

	// Allow only letters, numbers, spaces, safe punctuation, and French accents
	if !nameRegex.MatchString(trimmed) {
		return "", fmt.Errorf("medication name contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, plus sign, and common French accented characters are allowed")
	}

	if hasExcessiveRepetition(trimmed) {
		return "", fmt.Errorf("medication name contains excessive character repetition")
	}

	return lowered, nil
}

// hasExcessiveRepetition checks for the same character repeated more than
// 10 times consecutively.
func hasExcessiveRepetition(input string) bool {
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
