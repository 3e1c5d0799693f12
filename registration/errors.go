package registration

import (
	"github.com/pkg/errors"

	"campuslands/validation"
)

// Kind classifies registration failures. The HTTP layer maps kinds to status codes.
type Kind int

const (
	KindInsufficientData Kind = iota + 1
	KindUnknownField
	KindInvalidFieldType
	KindInvalidFieldFormat
	KindInvalidID
	KindNotFound
	KindConflict
	KindStoreFailure
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientData:
		return "insufficient_data"
	case KindUnknownField:
		return "unknown_field"
	case KindInvalidFieldType:
		return "invalid_type"
	case KindInvalidFieldFormat:
		return "invalid_format"
	case KindInvalidID:
		return "invalid_id"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStoreFailure:
		return "store_failure"
	default:
		return "unknown"
	}
}

// Error is returned by every Engine operation that fails.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 when err is not a registration error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

func invalid(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Message: "solicitud inválida (" + msg + ")"}
}

func fromField(fe *validation.FieldError) *Error {
	kind := KindInvalidFieldFormat
	if fe.Result == validation.WrongType {
		kind = KindInvalidFieldType
	}
	return &Error{Kind: kind, Field: fe.Field, Message: fe.Error(), Err: fe}
}

func storeFailure(err error) *Error {
	return &Error{Kind: KindStoreFailure, Message: err.Error(), Err: err}
}

var errNotFound = &Error{Kind: KindNotFound, Message: "no encontrado (0 campers coincidentes con el 'id' solicitado)"}
