// Package validation holds the shared struct validator used on data before it is sent to the backend.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	NotBlankTag = "notblank"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(NotBlankTag, notBlankValidation)
	RegisterMessage(NotBlankTag, "{0} cannot be blank")
}

// RegisterMessage sets the translated message of tag. {0} is replaced by the field name.
func RegisterMessage(tag, text string) {
	_ = Validate.RegisterTranslation(tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		})
}

// Struct validates v and converts the first failure into a validation error carrying its message.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !apperrors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation(err.Error(), err)
	}
	return apperrors.Validation(verrs[0].Translate(Translator), verrs)
}

// Failed returns the tags that failed for the named JSON field in err.
func Failed(err error, field string) []string {
	var verrs validator.ValidationErrors
	if !apperrors.As(err, &verrs) {
		return nil
	}
	var tags []string
	for _, fe := range verrs {
		if fe.Field() == field {
			tags = append(tags, fe.Tag())
		}
	}
	return tags
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}
