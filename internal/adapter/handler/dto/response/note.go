package response

import (
	"time"

	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
)

type NoteResponse struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

type NotesListResponse struct {
	Notes []NoteResponse `json:"notes" yaml:"notes"`
}

func NoteFromEntity(n *entity.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID().String(),
		Title:     n.Title(),
		Content:   n.Content(),
		Tags:      n.Tags(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
}

func NotesFromEntities(notes []*entity.Note) []NoteResponse {
	result := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		result = append(result, NoteFromEntity(n))
	}
	return result
}
