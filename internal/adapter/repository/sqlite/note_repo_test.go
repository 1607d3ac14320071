package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository/sqlite"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newNote(t *testing.T, title string, tags ...string) *entity.Note {
	t.Helper()
	n, err := entity.NewNote(title, "Content of "+title, tags)
	require.NoError(t, err)
	return n
}

func TestNoteRepo_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips every field", func(t *testing.T) {
		repo := sqlite.NewNoteRepo(setupTestDB(t))
		n := newNote(t, "Title", "b", "a", "b")

		saved, err := repo.Save(ctx, n)
		require.NoError(t, err)

		assert.Equal(t, n.ID(), saved.ID())
		assert.Equal(t, n.Title(), saved.Title())
		assert.Equal(t, n.Content(), saved.Content())
		assert.True(t, n.CreatedAt().Equal(saved.CreatedAt()))
		assert.True(t, n.UpdatedAt().Equal(saved.UpdatedAt()))
		assert.Equal(t, []string{"b", "a", "b"}, saved.Tags())
	})

	t.Run("stores note without tags", func(t *testing.T) {
		repo := sqlite.NewNoteRepo(setupTestDB(t))

		saved, err := repo.Save(ctx, newNote(t, "Untagged"))

		require.NoError(t, err)
		assert.NotNil(t, saved.Tags())
		assert.Empty(t, saved.Tags())
	})

	t.Run("upserts and replaces tags", func(t *testing.T) {
		repo := sqlite.NewNoteRepo(setupTestDB(t))
		n := newNote(t, "Title", "tag1", "tag2")
		_, err := repo.Save(ctx, n)
		require.NoError(t, err)

		updated, err := n.Update("Updated", "Updated", []string{"updated"})
		require.NoError(t, err)
		forged := entity.ReconstituteNote(updated.ID(), updated.Title(), updated.Content(),
			updated.CreatedAt().Add(time.Hour), updated.UpdatedAt(), updated.Tags())

		saved, err := repo.Save(ctx, forged)

		require.NoError(t, err)
		assert.Equal(t, "Updated", saved.Title())
		assert.Equal(t, []string{"updated"}, saved.Tags())
		assert.True(t, n.CreatedAt().Equal(saved.CreatedAt()))
	})
}

func TestNoteRepo_FindByID(t *testing.T) {
	repo := sqlite.NewNoteRepo(setupTestDB(t))

	found, err := repo.FindByID(context.Background(), valueobject.NewNoteID())

	require.NoError(t, err)
	assert.False(t, found.IsPresent())
}

func TestNoteRepo_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice", func(t *testing.T) {
		repo := sqlite.NewNoteRepo(setupTestDB(t))

		notes, err := repo.FindAll(ctx)

		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("returns notes with their tags", func(t *testing.T) {
		repo := sqlite.NewNoteRepo(setupTestDB(t))
		first := newNote(t, "First", "x")
		second := newNote(t, "Second", "y", "z")
		_, err := repo.Save(ctx, first)
		require.NoError(t, err)
		_, err = repo.Save(ctx, second)
		require.NoError(t, err)

		notes, err := repo.FindAll(ctx)

		require.NoError(t, err)
		require.Len(t, notes, 2)
		byTitle := map[string][]string{}
		for _, n := range notes {
			byTitle[n.Title()] = n.Tags()
		}
		assert.Equal(t, []string{"x"}, byTitle["First"])
		assert.Equal(t, []string{"y", "z"}, byTitle["Second"])
	})
}

func TestNoteRepo_ExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := sqlite.NewNoteRepo(db)
	n := newNote(t, "Title", "tag")
	_, err := repo.Save(ctx, n)
	require.NoError(t, err)

	exists, err := repo.ExistsByID(ctx, n.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByID(ctx, n.ID()))

	exists, err = repo.ExistsByID(ctx, n.ID())
	require.NoError(t, err)
	assert.False(t, exists)

	var tagCount int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM note_tags`).Scan(&tagCount))
	assert.Zero(t, tagCount, "tags are removed with their note")

	assert.NoError(t, repo.DeleteByID(ctx, n.ID()))
}

func TestTxManager_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back on error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := sqlite.NewNoteRepo(db)
		txm := sqlite.NewTxManager(db)
		n := newNote(t, "Rolled back", "tag")
		failure := errors.New("fail")

		err := txm.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := repo.Save(ctx, n); err != nil {
				return err
			}
			return failure
		})

		assert.ErrorIs(t, err, failure)
		exists, err := repo.ExistsByID(ctx, n.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("commits on success", func(t *testing.T) {
		db := setupTestDB(t)
		repo := sqlite.NewNoteRepo(db)
		txm := sqlite.NewTxManager(db)
		n := newNote(t, "Committed")

		err := txm.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repo.Save(ctx, n)
			return err
		})

		require.NoError(t, err)
		exists, err := repo.ExistsByID(ctx, n.ID())
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("nested call joins outer transaction", func(t *testing.T) {
		db := setupTestDB(t)
		repo := sqlite.NewNoteRepo(db)
		txm := sqlite.NewTxManager(db)
		n := newNote(t, "Nested", "tag")
		failure := errors.New("outer fails")

		err := txm.WithinTx(ctx, func(ctx context.Context) error {
			if err := txm.WithinTx(ctx, func(ctx context.Context) error {
				_, err := repo.Save(ctx, n)
				return err
			}); err != nil {
				return err
			}
			return failure
		})

		assert.ErrorIs(t, err, failure)
		exists, err := repo.ExistsByID(ctx, n.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("commit callbacks wait for the commit", func(t *testing.T) {
		db := setupTestDB(t)
		repo := sqlite.NewNoteRepo(db)
		txm := sqlite.NewTxManager(db)
		n := newNote(t, "Hooked")
		var seen []bool

		err := txm.WithinTx(ctx, func(txCtx context.Context) error {
			if _, err := repo.Save(txCtx, n); err != nil {
				return err
			}
			repository.AfterCommit(txCtx, func(ctx context.Context) {
				exists, err := repo.ExistsByID(ctx, n.ID())
				require.NoError(t, err)
				seen = append(seen, exists)
			})
			assert.Empty(t, seen)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []bool{true}, seen, "callback sees the committed note")
	})
}
