package errors

import (
	"errors"

	"github.com/collectif-citoyen/plateforme/internal/platform/errors/i18n"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// HTTPError is the client-facing form of a domain error.
type HTTPError struct {
	Status  int
	Code    Code
	Message string
}

// ToHTTP converts domain errors to an HTTP status and localized message.
// It formats the user-facing message using the i18n catalog for the given locale,
// defaulting to en-US if the locale is empty.
func ToHTTP(err error, locale string) HTTPError {
	if locale == "" {
		locale = DefaultLocale
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		catalog := i18n.GetCatalog(locale)
		return HTTPError{
			Status:  appErr.Code.HTTPStatus(),
			Code:    appErr.Code,
			Message: catalog.Format(string(appErr.Code), appErr.Metadata),
		}
	}

	// Unknown error - return internal with generic message
	return HTTPError{
		Status:  CodeUnknown.HTTPStatus(),
		Code:    CodeUnknown,
		Message: "an unexpected error occurred",
	}
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
// Returns nil if the error is not a domain error or has no metadata.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}
