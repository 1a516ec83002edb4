package ml

import (
	"errors"
	"math"
)

// ErrInvalidInput marks a precondition failure on scorer input. NaN or
// infinite values upstream must never coerce into a valid-looking score.
var ErrInvalidInput = errors.New("scorer input is not a finite number")

func checkFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidInput
		}
	}
	return nil
}
