package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
)

var (
	ErrInternalServer     = errors.New("Internal server error")
	ErrClient             = errors.New("Bad request")
	ErrNotLoggedIn        = errors.New("Auth failed")
	ErrNotFound           = errors.New("No valid entry found")
	ErrValidation         = errors.New("Product validation failed")
	ErrUnknownField       = errors.New("Unknown product field")
	ErrInvalidFieldValue  = errors.New("Invalid value for product field")
	ErrMalformedID        = errors.New("Malformed product id")
	ErrEventPublishFailed = errors.New("Failed to publish product event")
)

// ErrValidation and ErrMalformedID stay 500: they stand in for the
// document store rejecting the write or the id cast.
var errorMap = map[error]int{
	ErrInternalServer:     ErrStatusInternalServer,
	ErrClient:             ErrStatusClient,
	ErrNotLoggedIn:        ErrStatusUnauthorized,
	ErrNotFound:           ErrStatusNotFound,
	ErrValidation:         ErrStatusInternalServer,
	ErrUnknownField:       ErrStatusClient,
	ErrInvalidFieldValue:  ErrStatusClient,
	ErrMalformedID:        ErrStatusInternalServer,
	ErrEventPublishFailed: ErrStatusInternalServer,
}

func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for target, errStatusCode := range errorMap {
		if errors.Is(err, target) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}
