// Package validation checks and normalizes user input for leads, billing and
// content edits. Failures are reported per field with German messages.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to its first failure message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("leadurl", validateLeadURL)
		_ = v.RegisterValidation("phone", validatePhone)
		_ = v.RegisterValidation("vatid", validateVatID)
		instance = v
	})
	return instance
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Struct validates s and returns nil when it passes. Passing something that
// is not a struct is a programming error and panics.
func Struct(s any) Errors {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		panic(invalid)
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"": msgInvalid}
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		field, message := describe(fe)
		if _, exists := out[field]; !exists {
			out[field] = message
		}
	}
	return out
}

// describe turns a field error into (field, message). Element errors of
// slices are reported on the slice itself.
func describe(fe validator.FieldError) (string, string) {
	field := fe.Field()
	element := false
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
		element = true
	}
	if element {
		return field, msgEmptyEntry
	}

	structName := strings.SplitN(fe.StructNamespace(), ".", 2)[0]
	if msg, ok := messages[structName+"."+field+"."+fe.Tag()]; ok {
		return field, msg
	}
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return field, msg
	}
	return field, msgInvalid
}
