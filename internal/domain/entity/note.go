package entity

import (
	"slices"
	"strings"
	"time"

	"github.com/marcos-nsantos/notes-backend/internal/domain"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
)

// timestampPrecision matches what PostgreSQL and SQLite store, so a note
// survives a storage round trip unchanged.
const timestampPrecision = time.Microsecond

var now = func() time.Time {
	return time.Now().UTC().Truncate(timestampPrecision)
}

// Note is immutable: every change produces a new snapshot through Update.
type Note struct {
	id        valueobject.NoteID
	title     string
	content   string
	createdAt time.Time
	updatedAt time.Time
	tags      []string
}

func NewNote(title, content string, tags []string) (*Note, error) {
	if err := validate(title, content); err != nil {
		return nil, err
	}

	ts := now()
	return &Note{
		id:        valueobject.NewNoteID(),
		title:     title,
		content:   content,
		createdAt: ts,
		updatedAt: ts,
		tags:      copyTags(tags),
	}, nil
}

// ReconstituteNote rebuilds a note loaded from storage. Stored data is
// trusted, so nothing is validated.
func ReconstituteNote(id valueobject.NoteID, title, content string, createdAt, updatedAt time.Time, tags []string) *Note {
	return &Note{
		id:        id,
		title:     title,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
		tags:      copyTags(tags),
	}
}

// Update returns a new snapshot with the given fields. The receiver is left
// untouched.
func (n *Note) Update(title, content string, tags []string) (*Note, error) {
	if err := validate(title, content); err != nil {
		return nil, err
	}

	updatedAt := now()
	if !updatedAt.After(n.updatedAt) {
		updatedAt = n.updatedAt.Add(timestampPrecision)
	}

	return &Note{
		id:        n.id,
		title:     title,
		content:   content,
		createdAt: n.createdAt,
		updatedAt: updatedAt,
		tags:      copyTags(tags),
	}, nil
}

func (n *Note) ID() valueobject.NoteID {
	return n.id
}

func (n *Note) Title() string {
	return n.title
}

func (n *Note) Content() string {
	return n.content
}

func (n *Note) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Note) UpdatedAt() time.Time {
	return n.updatedAt
}

// Tags returns a copy of the note's tags in their original order.
func (n *Note) Tags() []string {
	return copyTags(n.tags)
}

// Equal reports whether both notes have the same identity.
func (n *Note) Equal(other *Note) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.id == other.id
}

func validate(title, content string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	return validateContent(content)
}

func validateTitle(title string) error {
	if isBlank(title) {
		return domain.ErrTitleRequired
	}
	return nil
}

func validateContent(content string) error {
	if isBlank(content) {
		return domain.ErrContentRequired
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func copyTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
