package validators

import (
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

func HasUpper(fl validator.FieldLevel) bool {
	return containsClass(fl.Field().String(), unicode.IsUpper)
}

func HasLower(fl validator.FieldLevel) bool {
	return containsClass(fl.Field().String(), unicode.IsLower)
}

func HasDigit(fl validator.FieldLevel) bool {
	return containsClass(fl.Field().String(), unicode.IsDigit)
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !containsClass(fl.Field().String(), unicode.IsSpace)
}

// IsDateOnly accepts "2006-01-02", the stored appointment date format.
func IsDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// IsClockTime accepts "15:04", the stored appointment time format.
func IsClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func containsClass(s string, class func(rune) bool) bool {
	for _, r := range s {
		if class(r) {
			return true
		}
	}
	return false
}
