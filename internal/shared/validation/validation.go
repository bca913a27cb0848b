// Package validation holds the storefront's input rules: custom validator
// tags and their Spanish messages. Forms and services share them.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type FieldErrors map[string]string

// General is the key of form-level messages that belong to no single field.
const General = "_"

var (
	mailboxRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	personNameRe = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
)

// Register adds the storefront's custom tags to v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"trimmin": func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
		},
		"mailbox": func(fl validator.FieldLevel) bool {
			return mailboxRe.MatchString(fl.Field().String())
		},
		"personname": func(fl validator.FieldLevel) bool {
			return personNameRe.MatchString(strings.TrimSpace(fl.Field().String()))
		},
		"price": func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
			return err == nil && d.IsPositive()
		},
		"stock": func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true
			}
			n, err := strconv.Atoi(s)
			return err == nil && n >= 0
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

var (
	std     *validator.Validate
	stdOnce sync.Once
)

func engine() *validator.Validate {
	stdOnce.Do(func() {
		std = validator.New()
		std.SetTagName("binding")
		if err := Register(std); err != nil {
			panic(err)
		}
	})
	return std
}

// Check validates s against its binding tags. It returns nil when s is
// valid.
func Check(s any) FieldErrors {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	if fields, ok := Fields(err, s); ok {
		return fields
	}
	return FieldErrors{General: MsgInvalidForm}
}

// MsgInvalidForm is the form-level message for input that failed before any
// field rule ran.
const MsgInvalidForm = "Los datos del formulario no son válidos."

// Fields maps validator errors in err to field->message, keyed by the form
// tag of the field in dst. ok is false when err carries no validator errors.
func Fields(err error, dst any) (FieldErrors, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		out[fieldKey(dst, fe.StructField())] = messageForTag(fe.Tag(), fe.Param())
	}
	return out, true
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag := f.Tag.Get("form")
	if tag == "" {
		return strings.ToLower(structField)
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required", "notblank":
		return "Este campo es obligatorio."
	case "mailbox", "email":
		return "Correo inválido."
	case "min", "trimmin":
		return "Mínimo " + param + " caracteres."
	case "max":
		return "Máximo " + param + " caracteres."
	case "personname":
		return "Solo letras y espacios."
	case "price":
		return "El precio debe ser mayor a 0."
	case "stock":
		return "El stock debe ser un número entero no negativo."
	default:
		return "Valor inválido."
	}
}
