package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shylockwolf/ainote/internal/models"
)

// Validate is the shared validator instance.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("note_category", validateCategory); err != nil {
		panic(fmt.Sprintf("failed to register note_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("document_action", validateDocumentAction); err != nil {
		panic(fmt.Sprintf("failed to register document_action validator: %v", err))
	}
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.ValidCategory(models.Category(fl.Field().String()))
}

func validateDocumentAction(fl validator.FieldLevel) bool {
	return models.ValidDocumentAction(models.DocumentAction(fl.Field().String()))
}

// SanitizeText trims whitespace and strips control characters except
// newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}
	return sanitized.String()
}

// ValidateDocumentAction validates a document action string value.
func ValidateDocumentAction(value string) error {
	if !models.ValidDocumentAction(models.DocumentAction(value)) {
		return fmt.Errorf("invalid action: %s (must be 'translate', 'proofread', 'format', or 'mindmap')", value)
	}
	return nil
}
