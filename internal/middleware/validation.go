package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// timeSlotPattern matches slots like "10:00 AM - 11:00 AM".
var timeSlotPattern = regexp.MustCompile(
	`^(0?[1-9]|1[0-2]):[0-5][0-9] (AM|PM) - (0?[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return timeSlotPattern.MatchString(fl.Field().String())
	})
}
