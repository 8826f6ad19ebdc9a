// Package errors declares the business errors shared by the service layer
// and their mapping onto HTTP status codes.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies a DomainError by how the caller is expected to react.
type Kind int

const (
	// KindValidation is a caller-fixable input error.
	KindValidation Kind = iota + 1
	// KindConflict is a lost race or an illegal state change. The caller should
	// re-verify rather than retry blindly.
	KindConflict
	// KindPolicy is a business-rule denial.
	KindPolicy
	KindNotFound
)

// DomainError is a business error with a stable code.
type DomainError struct {
	Code    string
	Message string
	Kind    Kind
}

func (e *DomainError) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: kind}
}

// AsDomain returns the DomainError wrapped in err, if any.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HTTPStatus maps an error onto the status code handlers should answer with.
func HTTPStatus(err error) int {
	de, ok := AsDomain(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindPolicy:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
