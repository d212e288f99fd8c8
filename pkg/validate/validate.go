// Package validate plugs a pt-BR translated validator into gin binding.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	pt_BR "github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// Validator gin StructValidator with pt-BR messages
type Validator struct {
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
}

var _ binding.StructValidator = (*Validator)(nil)

// Install replaces gin's default validator
func Install() *Validator {
	v := &Validator{}
	binding.Validator = v
	return v
}

func (v *Validator) ValidateStruct(obj any) error {
	if kindOf(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

// Translator pt-BR translator
func (v *Validator) Translator() ut.Translator {
	v.lazyinit()
	return v.translator
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")

		// report json names instead of Go field names
		v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		locale := pt_BR.New()
		uni := ut.New(locale, locale)
		v.translator, _ = uni.GetTranslator("pt_BR")
		_ = ptbr_translations.RegisterDefaultTranslations(v.validate, v.translator)
	})
}

func kindOf(obj any) reflect.Kind {
	value := reflect.ValueOf(obj)
	kind := value.Kind()
	if kind == reflect.Ptr {
		kind = value.Elem().Kind()
	}
	return kind
}

// Messages translated messages for a binding error; other errors pass
// through as a single message
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	v, ok := binding.Validator.(*Validator)
	if !ok {
		out := make([]string, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, e.Error())
		}
		return out
	}

	trans := v.Translator()
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, e.Translate(trans))
	}
	return out
}

// Message first translated message
func Message(err error) string {
	return Messages(err)[0]
}
