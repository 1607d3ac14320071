package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/option"
)

var _ repository.NoteRepository = (*NoteRepo)(nil)

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// NoteRepo stores notes in SQLite. Tags live in note_tags keyed by position,
// which keeps their order and allows duplicates.
type NoteRepo struct {
	db *sql.DB
	tx *TxManager
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db, tx: NewTxManager(db)}
}

func (r *NoteRepo) Save(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	var saved *entity.Note
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		_, err := q.ExecContext(ctx, `
			INSERT INTO notes (id, title, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				content = excluded.content,
				updated_at = excluded.updated_at`,
			note.ID().String(), note.Title(), note.Content(),
			formatTime(note.CreatedAt()), formatTime(note.UpdatedAt()),
		)
		if err != nil {
			return fmt.Errorf("upserting note: %w", err)
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, note.ID().String()); err != nil {
			return fmt.Errorf("clearing tags: %w", err)
		}
		for i, tag := range note.Tags() {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO note_tags (note_id, position, name) VALUES (?, ?, ?)`,
				note.ID().String(), i, tag,
			); err != nil {
				return fmt.Errorf("inserting tag: %w", err)
			}
		}

		found, err := r.FindByID(ctx, note.ID())
		if err != nil {
			return err
		}
		saved, _ = found.Get()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *NoteRepo) FindByID(ctx context.Context, id valueobject.NoteID) (option.Option[*entity.Note], error) {
	q := conn(ctx, r.db)

	var title, content, createdAt, updatedAt string
	err := q.QueryRowContext(ctx,
		`SELECT title, content, created_at, updated_at FROM notes WHERE id = ?`, id.String(),
	).Scan(&title, &content, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return option.None[*entity.Note](), nil
	}
	if err != nil {
		return option.None[*entity.Note](), fmt.Errorf("querying note: %w", err)
	}

	tags, err := r.tagsFor(ctx, q, id)
	if err != nil {
		return option.None[*entity.Note](), err
	}

	note, err := reconstitute(id.String(), title, content, createdAt, updatedAt, tags)
	if err != nil {
		return option.None[*entity.Note](), err
	}
	return option.Some(note), nil
}

func (r *NoteRepo) FindAll(ctx context.Context) ([]*entity.Note, error) {
	q := conn(ctx, r.db)

	rows, err := q.QueryContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type row struct{ id, title, content, createdAt, updatedAt string }
	var scanned []row
	for rows.Next() {
		var rw row
		if err := rows.Scan(&rw.id, &rw.title, &rw.content, &rw.createdAt, &rw.updatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		scanned = append(scanned, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	tagsByNote, err := r.allTags(ctx, q)
	if err != nil {
		return nil, err
	}

	notes := make([]*entity.Note, 0, len(scanned))
	for _, rw := range scanned {
		note, err := reconstitute(rw.id, rw.title, rw.content, rw.createdAt, rw.updatedAt, tagsByNote[rw.id])
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (r *NoteRepo) ExistsByID(ctx context.Context, id valueobject.NoteID) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE id = ?)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking note existence: %w", err)
	}
	return exists, nil
}

func (r *NoteRepo) DeleteByID(ctx context.Context, id valueobject.NoteID) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

func (r *NoteRepo) tagsFor(ctx context.Context, q querier, id valueobject.NoteID) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name FROM note_tags WHERE note_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (r *NoteRepo) allTags(ctx context.Context, q querier) (map[string][]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT note_id, name FROM note_tags ORDER BY note_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make(map[string][]string)
	for rows.Next() {
		var noteID, name string
		if err := rows.Scan(&noteID, &name); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags[noteID] = append(tags[noteID], name)
	}
	return tags, rows.Err()
}

func reconstitute(rawID, title, content, rawCreatedAt, rawUpdatedAt string, tags []string) (*entity.Note, error) {
	id, err := valueobject.ParseNoteID(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid note id in database: %w", err)
	}
	createdAt, err := time.Parse(timeLayout, rawCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in database: %w", err)
	}
	updatedAt, err := time.Parse(timeLayout, rawUpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at in database: %w", err)
	}
	return entity.ReconstituteNote(id, title, content, createdAt.UTC(), updatedAt.UTC(), tags), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
