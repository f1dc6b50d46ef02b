package resource

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"floradmin/internal/model"
)

// ValidationError carries per-field messages keyed by the wire field name.
// An empty key holds a form-level message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Validator checks payloads before they are sent.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a validator that reports json field names and
// compares decimals as numbers.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &Validator{v: v}
}

// Check validates p and its attachment. It returns nil when p is valid.
func (v *Validator) Check(p Payload) *ValidationError {
	fields := v.structFields(p)

	if field, up := p.Attachment(); up != nil {
		if err := up.Validate(); err != nil {
			fields[field] = uploadMessage(err)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Validate implements echo.Validator so request bodies bound by echo are
// checked with the same rules and messages.
func (v *Validator) Validate(i interface{}) error {
	fields := v.structFields(i)
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (v *Validator) structFields(i interface{}) map[string]string {
	fields := make(map[string]string)
	err := v.v.Struct(i)
	if err == nil {
		return fields
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields[""] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		name := fe.Field()
		if idx := strings.IndexByte(name, '['); idx > 0 {
			name = name[:idx]
		}
		if _, seen := fields[name]; !seen {
			fields[name] = fieldMessage(fe)
		}
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "Este campo es obligatorio"
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Selecciona al menos %s", fe.Param())
		}
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "url":
		return "Debe ser una URL válida"
	case "oneof":
		return "Valor no permitido"
	}
	return "Valor inválido"
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrImageTooLarge):
		return "La imagen supera el máximo de 5 MB"
	case errors.Is(err, model.ErrNotAnImage):
		return "El archivo debe ser una imagen"
	}
	return err.Error()
}
