package domain

import "errors"

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrInvalidNoteID = errors.New("invalid note id")
)

type ValidationKind string

const (
	KindTitleRequired   ValidationKind = "TITLE_REQUIRED"
	KindContentRequired ValidationKind = "CONTENT_REQUIRED"
)

// ValidationError reports a note field that failed validation. errors.Is
// matches another *ValidationError of the same kind, or any kind when the
// target's Kind is empty.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

var (
	ErrValidation      = &ValidationError{Message: "validation failed"}
	ErrTitleRequired   = &ValidationError{Kind: KindTitleRequired, Message: "title is required"}
	ErrContentRequired = &ValidationError{Kind: KindContentRequired, Message: "content is required"}
)
