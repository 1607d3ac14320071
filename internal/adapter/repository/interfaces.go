package repository

import (
	"context"

	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/option"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

// NoteRepository is the storage contract the note use cases depend on.
type NoteRepository interface {
	// Save inserts the note, or replaces title, content, updated_at and tags
	// when a note with the same id exists. created_at is never rewritten.
	Save(ctx context.Context, note *entity.Note) (*entity.Note, error)
	// FindByID returns option.None when no note has the id.
	FindByID(ctx context.Context, id valueobject.NoteID) (option.Option[*entity.Note], error)
	// FindAll returns every note, or an empty slice. Order is not part of
	// the contract.
	FindAll(ctx context.Context) ([]*entity.Note, error)
	ExistsByID(ctx context.Context, id valueobject.NoteID) (bool, error)
	// DeleteByID is a no-op when the note is absent.
	DeleteByID(ctx context.Context, id valueobject.NoteID) error
}

// Transactor runs fn as a single unit of work. Repository calls made with
// the context handed to fn take part in it; the work commits when fn
// returns nil and rolls back otherwise. Callbacks registered with
// AfterCommit on that context run only after a successful commit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
