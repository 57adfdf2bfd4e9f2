package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// Validator validates request structs and reports failures per json field
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New instantiates a validator with English messages and the custom rules registered
func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(personNameTag, personNameValidation)
	registerTranslation(validate, translator, personNameTag, personNameText, false)
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	registerTranslation(validate, translator, notBlankTag, notBlankText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates obj. Field failures come back as *apperrors.ValidationError.
func (v *Validator) Struct(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}
	return verr
}

var defaultValidator = New()

// Struct validates obj with the shared validator
func Struct(obj interface{}) error {
	return defaultValidator.Struct(obj)
}
