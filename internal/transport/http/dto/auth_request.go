// Package dto defines the HTTP request and response bodies plus their
// validation rules. Validation is self-contained: each request type
// exposes a Validate method returning domain field errors.
package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/spectral-labs/auth-api/internal/domain"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	// Report json tag names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, trans)
}

// fieldErrors converts validator output into per-field messages.
func fieldErrors(err error) *domain.Error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ErrInternal(err)
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(trans),
		})
	}
	return domain.ErrFieldErrors(fields)
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=10,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (r RegisterRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fieldErrors(err)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fieldErrors(err)
	}
	return nil
}
