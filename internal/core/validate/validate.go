// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Prompt validates a prompt is non-empty after trimming whitespace.
func Prompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	return nil
}

// UserID validates a user ID can be used as a single storage path segment.
func UserID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("user is required")
	case id != strings.TrimSpace(id):
		return fmt.Errorf("user must not have leading or trailing whitespace")
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("user must not contain path separators")
	case id == "." || id == "..":
		return fmt.Errorf("user %q is reserved", id)
	}
	return nil
}

// PromptField returns a criterio validator for prompts.
func PromptField(field, prompt string) error {
	return criterio.Run(field, prompt, Prompt)
}

// UserIDField returns a criterio validator for user IDs.
func UserIDField(field, id string) error {
	return criterio.Run(field, id, UserID)
}
