package services

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PasswordSpecials are the characters that satisfy the special character rule.
const PasswordSpecials = "@$!%*?&"

var registerOnce sync.Once

var fieldMessages = map[string]string{
	"username.required":   "Username is required!",
	"password.required":   "Password is required!",
	"password.min":        "Password must be at least 8 characters!",
	"password.haslower":   "Password must contain at least one lowercase letter!",
	"password.hasupper":   "Password must contain at least one uppercase letter!",
	"password.hasdigit":   "Password must contain at least one digit!",
	"password.hasspecial": "Password must contain at least one special character! (" + PasswordSpecials + ")",
	"date.required":       "Date is required!",
	"time.required":       "Time is required!",
}

// RegisterValidators adds the password rules to gin's binding engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("haslower", containsFunc(inRange('a', 'z')))
		_ = v.RegisterValidation("hasupper", containsFunc(inRange('A', 'Z')))
		_ = v.RegisterValidation("hasdigit", containsFunc(inRange('0', '9')))
		_ = v.RegisterValidation("hasspecial", func(fl validator.FieldLevel) bool {
			return strings.ContainsAny(fl.Field().String(), PasswordSpecials)
		})
	})
}

// inRange matches ASCII only; accented letters and non-Latin digits do not
// count toward the character rules.
func inRange(lo, hi rune) func(rune) bool {
	return func(r rune) bool { return r >= lo && r <= hi }
}

func containsFunc(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// Validate checks a form against its binding tags and returns one message per
// failing field, or nil when the form is valid.
func Validate(form any) map[string]string {
	RegisterValidators()
	return FieldErrors(binding.Validator.ValidateStruct(form))
}

// FieldErrors turns a validator error into field -> message. Errors that are
// not validation errors yield nil.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if err == nil || !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := fieldMessages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid " + field + "!"
		}
		out[field] = msg
	}
	return out
}
