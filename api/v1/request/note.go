package request

// CreateNoteRequest carries a new note. Tag may be omitted; the service
// defaults it to "personal".
type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"content" binding:"required"`
	Tag     string `json:"tag" binding:"omitempty,notetag"`
}

// UpdateNoteRequest is a partial update: empty fields keep their prior
// values.
type UpdateNoteRequest struct {
	Title   string `json:"title" binding:"omitempty,max=100"`
	Content string `json:"content"`
	Tag     string `json:"tag" binding:"omitempty,notetag"`
}
