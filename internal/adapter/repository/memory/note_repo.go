package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/option"
)

var (
	_ repository.NoteRepository = (*NoteRepo)(nil)
	_ repository.Transactor     = (*NoteRepo)(nil)
)

// NoteRepo keeps notes in a map. It is its own Transactor: units of work
// run one at a time and a failed one restores the map it started from.
type NoteRepo struct {
	mu    sync.RWMutex
	notes map[valueobject.NoteID]*entity.Note

	txMu sync.Mutex
}

func NewNoteRepo() *NoteRepo {
	return &NoteRepo{
		notes: make(map[valueobject.NoteID]*entity.Note),
	}
}

func (r *NoteRepo) Save(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := note
	if existing, ok := r.notes[note.ID()]; ok {
		stored = entity.ReconstituteNote(
			note.ID(), note.Title(), note.Content(),
			existing.CreatedAt(), note.UpdatedAt(), note.Tags(),
		)
	}
	r.notes[note.ID()] = stored

	return stored, nil
}

func (r *NoteRepo) FindByID(ctx context.Context, id valueobject.NoteID) (option.Option[*entity.Note], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return option.None[*entity.Note](), nil
	}
	return option.Some(note), nil
}

// FindAll returns notes most recently updated first.
func (r *NoteRepo) FindAll(ctx context.Context) ([]*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := slices.Collect(maps.Values(r.notes))
	if notes == nil {
		notes = []*entity.Note{}
	}
	slices.SortFunc(notes, func(a, b *entity.Note) int {
		return b.UpdatedAt().Compare(a.UpdatedAt())
	})

	return notes, nil
}

func (r *NoteRepo) ExistsByID(ctx context.Context, id valueobject.NoteID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.notes[id]
	return ok, nil
}

func (r *NoteRepo) DeleteByID(ctx context.Context, id valueobject.NoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notes, id)
	return nil
}

type txKey struct{}

// WithinTx joins the unit of work already carried by ctx, if any.
func (r *NoteRepo) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(txKey{}).(*NoteRepo); ok && owner == r {
		return fn(ctx)
	}

	txCtx, afterCommit := repository.TrackCommit(context.WithValue(ctx, txKey{}, r))
	if err := r.runExclusive(txCtx, fn); err != nil {
		return err
	}
	afterCommit(ctx)
	return nil
}

// runExclusive runs fn while no other unit of work is active and restores
// the map when fn fails or panics.
func (r *NoteRepo) runExclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := maps.Clone(r.notes)
	r.mu.RUnlock()

	done := false
	defer func() {
		if done {
			return
		}
		r.mu.Lock()
		r.notes = snapshot
		r.mu.Unlock()
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	done = true
	return nil
}
