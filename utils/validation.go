package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultLanguage is used when a request does not name a language.
const DefaultLanguage = "en"

// languageCode accepts ISO 639 codes with an optional region, e.g. "en", "pt", "en_us", "en-GB".
var languageCode = regexp.MustCompile(`^[a-z]{2,3}([_-][a-z]{2})?$`)

// Validate is the shared validator with the service's custom rules registered.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return IsLanguageCode(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsLanguageCode reports whether code looks like a provider language code.
func IsLanguageCode(code string) bool {
	return languageCode.MatchString(strings.ToLower(code))
}

// SanitizeLanguage trims and lowercases a language code, falling back to DefaultLanguage.
func SanitizeLanguage(input string) string {
	lang := strings.ToLower(strings.TrimSpace(input))
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}
