package valueobject

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/notes-backend/internal/domain"
)

// NoteID is the identity of a note. The zero value is not a valid id.
type NoteID struct {
	value uuid.UUID
}

func NewNoteID() NoteID {
	return NoteID{value: uuid.New()}
}

func NoteIDFromUUID(id uuid.UUID) (NoteID, error) {
	if id == uuid.Nil {
		return NoteID{}, fmt.Errorf("%w: nil uuid", domain.ErrInvalidNoteID)
	}
	return NoteID{value: id}, nil
}

func ParseNoteID(s string) (NoteID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NoteID{}, fmt.Errorf("%w: %q", domain.ErrInvalidNoteID, s)
	}
	return NoteIDFromUUID(id)
}

// MustParseNoteID is ParseNoteID for tests and constants; it panics on error.
func MustParseNoteID(s string) NoteID {
	id, err := ParseNoteID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id NoteID) UUID() uuid.UUID {
	return id.value
}

func (id NoteID) IsZero() bool {
	return id.value == uuid.Nil
}

func (id NoteID) String() string {
	return id.value.String()
}
