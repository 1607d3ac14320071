package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/option"
)

var _ repository.NoteRepository = (*NoteRepo)(nil)

const noteColumns = "id, title, content, created_at, updated_at, tags"

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func (r *NoteRepo) Save(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	query := `
		INSERT INTO notes (id, title, content, created_at, updated_at, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at,
			tags = EXCLUDED.tags
		RETURNING ` + noteColumns

	row := conn(ctx, r.pool).QueryRow(ctx, query,
		note.ID().UUID(), note.Title(), note.Content(),
		note.CreatedAt(), note.UpdatedAt(), note.Tags(),
	)

	saved, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("upserting note: %w", err)
	}
	return saved, nil
}

func (r *NoteRepo) FindByID(ctx context.Context, id valueobject.NoteID) (option.Option[*entity.Note], error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(conn(ctx, r.pool).QueryRow(ctx, query, id.UUID()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return option.None[*entity.Note](), nil
		}
		return option.None[*entity.Note](), fmt.Errorf("querying note: %w", err)
	}
	return option.Some(note), nil
}

func (r *NoteRepo) FindAll(ctx context.Context) ([]*entity.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY updated_at DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []*entity.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepo) ExistsByID(ctx context.Context, id valueobject.NoteID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1)`, id.UUID(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking note existence: %w", err)
	}
	return exists, nil
}

func (r *NoteRepo) DeleteByID(ctx context.Context, id valueobject.NoteID) error {
	if _, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM notes WHERE id = $1`, id.UUID()); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var (
		rawID                uuid.UUID
		title, content       string
		createdAt, updatedAt time.Time
		tags                 []string
	)

	if err := row.Scan(&rawID, &title, &content, &createdAt, &updatedAt, &tags); err != nil {
		return nil, err
	}

	id, err := valueobject.NoteIDFromUUID(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid note id in database: %w", err)
	}

	return entity.ReconstituteNote(id, title, content, createdAt.UTC(), updatedAt.UTC(), tags), nil
}
