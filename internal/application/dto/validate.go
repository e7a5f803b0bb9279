package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica las etiquetas `validate` de in. Un campo obligatorio ausente
// devuelve domain.ErrMissingField; cualquier otra regla, domain.ErrInvalidAmount.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Wrap(domain.ErrMissingField, err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return domain.Wrap(domain.ErrMissingField, fmt.Sprintf("%s es obligatorio", fe.Field()))
	default:
		return domain.Wrap(domain.ErrInvalidAmount, fmt.Sprintf("%s no cumple la regla %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}
}
