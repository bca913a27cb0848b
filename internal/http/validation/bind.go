// Package validation connects the shared input rules to gin's binding.
package validation

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	rules "tienda.shop/app/internal/shared/validation"
)

type FieldErrors = rules.FieldErrors

// General is the key of form-level messages that belong to no single field.
const General = rules.General

// RegisterGin adds the custom tags to gin's validator. It must run before the
// first bind.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return rules.Register(v)
}

// FromBindError turns a bind error into a field->message map. dst is the
// bound struct pointer, used to read form tags. Failures that are not rule
// violations (type mismatch and the like) become a form-level message.
func FromBindError(err error, dst any) FieldErrors {
	if fields, ok := rules.Fields(err, dst); ok {
		return fields
	}
	return FieldErrors{General: rules.MsgInvalidForm}
}
