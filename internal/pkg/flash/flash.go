package flash

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	libflash "github.com/sujit-baniya/flash"
)

const (
	errPrefix = "err_"
	oldPrefix = "old_"
)

// FormState is what a redirected form needs to render itself again.
type FormState struct {
	Message fiber.Map
	Errors  map[string]string
	Old     map[string]string
}

// Err returns the message for field, if any.
func (s FormState) Err(field string) string {
	return s.Errors[field]
}

// Value returns the previously submitted value of field.
func (s FormState) Value(field string) string {
	return s.Old[field]
}

// WithFormErrors flashes field errors and the submitted values. The flash
// cookie only carries flat string values, so both maps are prefixed.
func WithFormErrors(c *fiber.Ctx, message string, errs map[string]string, old map[string]string) *fiber.Ctx {
	data := fiber.Map{"type": "error", "message": message}
	for field, msg := range errs {
		data[errPrefix+field] = msg
	}
	for field, value := range old {
		data[oldPrefix+field] = value
	}
	return libflash.WithError(c, data)
}

// Get reads the flashed form state of the current request.
func Get(c *fiber.Ctx) FormState {
	state := FormState{
		Message: fiber.Map{},
		Errors:  map[string]string{},
		Old:     map[string]string{},
	}
	for key, value := range libflash.Get(c) {
		s := fmt.Sprint(value)
		switch {
		case strings.HasPrefix(key, errPrefix):
			state.Errors[strings.TrimPrefix(key, errPrefix)] = s
		case strings.HasPrefix(key, oldPrefix):
			state.Old[strings.TrimPrefix(key, oldPrefix)] = s
		default:
			state.Message[key] = value
		}
	}
	return state
}
