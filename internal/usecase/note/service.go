package note

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/notes-backend/internal/domain"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
)

type Service struct {
	noteRepo repository.NoteRepository
	tx       repository.Transactor
	logger   *zap.Logger
}

func NewService(noteRepo repository.NoteRepository, tx repository.Transactor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		noteRepo: noteRepo,
		tx:       tx,
		logger:   logger,
	}
}

type CreateInput struct {
	Title   string
	Content string
	Tags    []string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*entity.Note, error) {
	var saved *entity.Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		note, err := entity.NewNote(input.Title, input.Content, input.Tags)
		if err != nil {
			return err
		}

		saved, err = s.noteRepo.Save(ctx, note)
		if err != nil {
			return fmt.Errorf("saving note: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("create note", err)
		return nil, err
	}

	s.logger.Debug("note created", zap.Stringer("note_id", saved.ID()))
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id valueobject.NoteID) (*entity.Note, error) {
	var note *entity.Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.load(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure("get note", err, zap.Stringer("note_id", id))
		return nil, err
	}
	return note, nil
}

// List returns the repository's notes as-is.
func (s *Service) List(ctx context.Context) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		notes, err = s.noteRepo.FindAll(ctx)
		if err != nil {
			return fmt.Errorf("listing notes: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("list notes", err)
		return nil, err
	}
	return notes, nil
}

type UpdateInput struct {
	Title   string
	Content string
	Tags    []string
}

func (s *Service) Update(ctx context.Context, id valueobject.NoteID, input UpdateInput) (*entity.Note, error) {
	return s.modify(ctx, "update note", id, func(existing *entity.Note) (*entity.Note, error) {
		return existing.Update(input.Title, input.Content, input.Tags)
	})
}

// PatchInput lists the fields to change. Nil fields keep their stored value.
type PatchInput struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// Patch merges the given fields into the stored note and saves the result,
// reading and writing in the same unit of work.
func (s *Service) Patch(ctx context.Context, id valueobject.NoteID, input PatchInput) (*entity.Note, error) {
	return s.modify(ctx, "patch note", id, func(existing *entity.Note) (*entity.Note, error) {
		title, content, tags := existing.Title(), existing.Content(), existing.Tags()
		if input.Title != nil {
			title = *input.Title
		}
		if input.Content != nil {
			content = *input.Content
		}
		if input.Tags != nil {
			tags = *input.Tags
		}
		return existing.Update(title, content, tags)
	})
}

// modify loads the note, applies change and saves the result in one unit
// of work.
func (s *Service) modify(ctx context.Context, op string, id valueobject.NoteID, change func(*entity.Note) (*entity.Note, error)) (*entity.Note, error) {
	var saved *entity.Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		updated, err := change(existing)
		if err != nil {
			return err
		}

		saved, err = s.noteRepo.Save(ctx, updated)
		if err != nil {
			return fmt.Errorf("saving note: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(op, err, zap.Stringer("note_id", id))
		return nil, err
	}

	s.logger.Debug(op+" done", zap.Stringer("note_id", id))
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id valueobject.NoteID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.noteRepo.ExistsByID(ctx, id)
		if err != nil {
			return fmt.Errorf("checking note: %w", err)
		}
		if !exists {
			return notFound(id)
		}

		if err := s.noteRepo.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("deleting note: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete note", err, zap.Stringer("note_id", id))
		return err
	}

	s.logger.Debug("note deleted", zap.Stringer("note_id", id))
	return nil
}

func (s *Service) load(ctx context.Context, id valueobject.NoteID) (*entity.Note, error) {
	found, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding note: %w", err)
	}
	return found.OrError(notFound(id))
}

func (s *Service) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if isDomainError(err) {
		s.logger.Debug(op+" rejected", fields...)
		return
	}
	s.logger.Error(op+" failed", fields...)
}

func notFound(id valueobject.NoteID) error {
	return fmt.Errorf("%w: %s", domain.ErrNoteNotFound, id)
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrNoteNotFound) || errors.Is(err, domain.ErrValidation)
}
