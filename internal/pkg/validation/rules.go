package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Person names: letters in any script plus spaces, hyphens, apostrophes and dots
	PersonNamePattern = `^[\p{L}][\p{L} .'\-]*$`

	// Name validation min/max length
	NameMinLength = 1
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	PersonName *regexp.Regexp
}{
	PersonName: regexp.MustCompile(PersonNamePattern),
}

// custom validation tags & texts
const (
	personNameTag  = "personname"
	personNameText = "{0} may only contain letters, spaces, hyphens, apostrophes and dots"

	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

func personNameValidation(fl validator.FieldLevel) bool {
	return CompiledPatterns.PersonName.MatchString(fl.Field().String())
}

// notBlankValidation rejects strings made only of whitespace
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
