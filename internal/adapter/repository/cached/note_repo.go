package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/option"
)

const (
	keyPrefix     = "note:"
	versionSuffix = ":v"

	// minVersionTTL keeps version counters alive for longer than any read.
	minVersionTTL = time.Minute
)

var errStaleRead = errors.New("note changed while it was being read")

// NoteRepo puts a Redis read-through cache in front of another
// NoteRepository. Only FindByID is served from the cache. Writes go to the
// wrapped repository and drop the cached entry once their unit of work has
// committed. Every drop bumps a per-note version; a read only fills the
// cache when the version it started with is still current, so a read that
// raced a commit cannot put the old note back. A failing cache is logged
// and bypassed.
type NoteRepo struct {
	next   repository.NoteRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewNoteRepo(next repository.NoteRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *NoteRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteRepo{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

type cachedNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []string  `json:"tags"`
}

func (r *NoteRepo) Save(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	saved, err := r.next.Save(ctx, note)
	if err != nil {
		return nil, err
	}
	r.invalidateAfterCommit(ctx, note.ID())
	return saved, nil
}

func (r *NoteRepo) FindByID(ctx context.Context, id valueobject.NoteID) (option.Option[*entity.Note], error) {
	if note, ok := r.get(ctx, id); ok {
		return option.Some(note), nil
	}

	version, versionOK := r.version(ctx, id)

	found, err := r.next.FindByID(ctx, id)
	if err != nil {
		return found, err
	}
	if note, ok := found.Get(); ok && versionOK {
		// Inside a unit of work the row may still change or roll back.
		repository.AfterCommit(ctx, func(ctx context.Context) {
			r.set(ctx, note, version)
		})
	}
	return found, nil
}

func (r *NoteRepo) FindAll(ctx context.Context) ([]*entity.Note, error) {
	return r.next.FindAll(ctx)
}

func (r *NoteRepo) ExistsByID(ctx context.Context, id valueobject.NoteID) (bool, error) {
	return r.next.ExistsByID(ctx, id)
}

func (r *NoteRepo) DeleteByID(ctx context.Context, id valueobject.NoteID) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidateAfterCommit(ctx, id)
	return nil
}

func (r *NoteRepo) get(ctx context.Context, id valueobject.NoteID) (*entity.Note, bool) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("note cache read failed", zap.Stringer("note_id", id), zap.Error(err))
		}
		return nil, false
	}

	note, err := decode(data)
	if err != nil {
		r.logger.Warn("dropping unreadable cache entry", zap.Stringer("note_id", id), zap.Error(err))
		r.invalidate(ctx, id)
		return nil, false
	}
	return note, true
}

func (r *NoteRepo) version(ctx context.Context, id valueobject.NoteID) (int64, bool) {
	v, err := r.client.Get(ctx, versionKey(id)).Int64()
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		r.logger.Warn("note cache version read failed", zap.Stringer("note_id", id), zap.Error(err))
		return 0, false
	}
}

// set stores note unless the note was invalidated after version was read.
func (r *NoteRepo) set(ctx context.Context, note *entity.Note, version int64) {
	data, err := json.Marshal(cachedNote{
		ID:        note.ID().String(),
		Title:     note.Title(),
		Content:   note.Content(),
		CreatedAt: note.CreatedAt(),
		UpdatedAt: note.UpdatedAt(),
		Tags:      note.Tags(),
	})
	if err != nil {
		r.logger.Warn("encoding note for cache", zap.Stringer("note_id", note.ID()), zap.Error(err))
		return
	}

	vKey := versionKey(note.ID())
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleRead
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(note.ID()), data, r.ttl)
			return nil
		})
		return err
	}, vKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("skipping cache fill for changed note", zap.Stringer("note_id", note.ID()))
	default:
		r.logger.Warn("note cache write failed", zap.Stringer("note_id", note.ID()), zap.Error(err))
	}
}

func (r *NoteRepo) invalidateAfterCommit(ctx context.Context, id valueobject.NoteID) {
	repository.AfterCommit(ctx, func(ctx context.Context) {
		r.invalidate(ctx, id)
	})
}

func (r *NoteRepo) invalidate(ctx context.Context, id valueobject.NoteID) {
	vKey := versionKey(id)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, vKey)
		pipe.Expire(ctx, vKey, max(r.ttl, minVersionTTL))
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		r.logger.Warn("note cache invalidation failed", zap.Stringer("note_id", id), zap.Error(err))
	}
}

func decode(data []byte) (*entity.Note, error) {
	var c cachedNote
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding cached note: %w", err)
	}

	id, err := valueobject.ParseNoteID(c.ID)
	if err != nil {
		return nil, err
	}
	return entity.ReconstituteNote(id, c.Title, c.Content, c.CreatedAt.UTC(), c.UpdatedAt.UTC(), c.Tags), nil
}

func key(id valueobject.NoteID) string {
	return keyPrefix + id.String()
}

func versionKey(id valueobject.NoteID) string {
	return key(id) + versionSuffix
}
