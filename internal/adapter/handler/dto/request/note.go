package request

// Title and content are checked by the domain so blank values get the
// TITLE_REQUIRED and CONTENT_REQUIRED codes.
type CreateNoteRequest struct {
	Title   string   `json:"title" binding:"max=255"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type UpdateNoteRequest struct {
	Title   string   `json:"title" binding:"max=255"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
