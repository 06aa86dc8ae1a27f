package employee

import "errors"

// Errors returned by stores. The service translates them into *Error values.
var (
	ErrDuplicateEmail = errors.New("employee email already exists")
	ErrNoRows         = errors.New("employee not found")
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
)

const (
	MsgFieldsRequired = "All fields are required"
	MsgNameTooShort   = "Name must be at least 2 characters"
	MsgInvalidEmail   = "Invalid email address"
	MsgEmailExists    = "Email already exists"
	MsgNotFound       = "Employee not found"
)

// Error is the structured failure returned by Service. Field tags the input
// field a client should highlight; it is empty when no single field applies.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrStorage:
		return e.Kind == KindStorage
	}
	return false
}

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func conflictError(err error) *Error {
	return &Error{Kind: KindConflict, Field: "email", Message: MsgEmailExists, Err: err}
}

func notFoundError(err error) *Error {
	return &Error{Kind: KindNotFound, Message: MsgNotFound, Err: err}
}

func storageError(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf reports the Kind of err, or KindStorage for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}
