package handler

import (
	"context"

	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/usecase/note"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type NoteService interface {
	Create(ctx context.Context, input note.CreateInput) (*entity.Note, error)
	List(ctx context.Context) ([]*entity.Note, error)
	GetByID(ctx context.Context, id valueobject.NoteID) (*entity.Note, error)
	Update(ctx context.Context, id valueobject.NoteID, input note.UpdateInput) (*entity.Note, error)
	Delete(ctx context.Context, id valueobject.NoteID) error
}
