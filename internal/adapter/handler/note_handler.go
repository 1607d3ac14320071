package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/notes-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/notes-backend/internal/domain"
	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/notes-backend/internal/usecase/note"
)

type NoteHandler struct {
	noteSvc NoteService
}

func NewNoteHandler(noteSvc NoteService) *NoteHandler {
	return &NoteHandler{noteSvc: noteSvc}
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req request.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleError(c, apperror.Validation("", err.Error()))
		return
	}

	n, err := h.noteSvc.Create(c.Request.Context(), note.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		handleNoteError(c, err)
		return
	}

	httputil.Created(c, response.NoteFromEntity(n))
}

func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.noteSvc.List(c.Request.Context())
	if err != nil {
		handleNoteError(c, err)
		return
	}

	httputil.OK(c, response.NotesListResponse{
		Notes: response.NotesFromEntities(notes),
	})
}

func (h *NoteHandler) Get(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	n, err := h.noteSvc.GetByID(c.Request.Context(), noteID)
	if err != nil {
		handleNoteError(c, err)
		return
	}

	httputil.OK(c, response.NoteFromEntity(n))
}

func (h *NoteHandler) Update(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	var req request.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleError(c, apperror.Validation("", err.Error()))
		return
	}

	n, err := h.noteSvc.Update(c.Request.Context(), noteID, note.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		handleNoteError(c, err)
		return
	}

	httputil.OK(c, response.NoteFromEntity(n))
}

func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	if err := h.noteSvc.Delete(c.Request.Context(), noteID); err != nil {
		handleNoteError(c, err)
		return
	}

	httputil.NoContent(c)
}

func parseNoteID(c *gin.Context) (valueobject.NoteID, bool) {
	noteID, err := valueobject.ParseNoteID(c.Param("id"))
	if err != nil {
		httputil.HandleError(c, apperror.InvalidID("note"))
		return valueobject.NoteID{}, false
	}
	return noteID, true
}

func handleNoteError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		httputil.HandleError(c, apperror.Validation(string(validationErr.Kind), validationErr.Message))
	case errors.Is(err, domain.ErrNoteNotFound):
		httputil.HandleError(c, apperror.NotFound("note"))
	default:
		_ = c.Error(err)
		httputil.HandleError(c, apperror.Internal(err))
	}
}
