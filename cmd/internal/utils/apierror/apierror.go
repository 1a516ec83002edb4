package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the error shape services hand back to routes: a JSON
// body plus the HTTP status it should be rendered with.
type ErrorResponse interface {
	error
	Code() int
}

type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) Code() int {
	return e.Status
}

func NewSimple(code int, message string) ErrorResponse {
	return &apiError{Status: code, Message: message}
}

func NewMissingParamError(name string) ErrorResponse {
	return &apiError{Status: http.StatusBadRequest, Message: fmt.Sprintf("missing required parameter %q", name)}
}

func NewInvalidParamTypeError(name, expected string) ErrorResponse {
	return &apiError{Status: http.StatusBadRequest, Message: fmt.Sprintf("parameter %q must be a %s", name, expected)}
}

// FromValidationError maps a validator failure to a 400 naming the first
// offending field.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &apiError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("field %q failed validation rule %q", first.Field(), first.Tag()),
		}
	}
	return &apiError{Status: http.StatusBadRequest, Message: "request validation failed"}
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "something went wrong on our side")
	NotFoundError         = NewSimple(http.StatusNotFound, "resource not found")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "malformed request body")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "invalid or missing auth token")
	ForbiddenError        = NewSimple(http.StatusForbidden, "you are not allowed to do that")

	UserAlreadyExistsError      = NewSimple(http.StatusConflict, "username already exists")
	CredentialsMismatchError    = NewSimple(http.StatusUnauthorized, "username or password is incorrect")
	InvalidDoctorError          = NewSimple(http.StatusBadRequest, "selected doctor does not exist or is not a doctor")
	PatientAccessRequiredError  = NewSimple(http.StatusForbidden, "patient access required")
	DoctorAccessRequiredError   = NewSimple(http.StatusForbidden, "doctor access required")
	DuplicateReportError        = NewSimple(http.StatusConflict, "this file already exists, rename or choose a different file")
	UnsupportedFileTypeError    = NewSimple(http.StatusBadRequest, "file type is not allowed")
	FileTooLargeError           = NewSimple(http.StatusRequestEntityTooLarge, "file exceeds the maximum allowed size")
	EmergencyNotPendingError    = NewSimple(http.StatusConflict, "emergency was already resolved or does not exist")
	NoDoctorsAvailableError     = NewSimple(http.StatusConflict, "no doctors available, ask a doctor to register first")
	AppointmentNotYoursError    = NewSimple(http.StatusForbidden, "appointment belongs to another user")
	AppointmentUnavailableError = NewSimple(http.StatusConflict, "appointment already removed")
)
