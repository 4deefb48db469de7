package v1

import (
	"errors"
	"net/http"
	"strconv"

	"smartnotes/api/v1/request"
	"smartnotes/internal/analysis"
	"smartnotes/internal/metrics"
	"smartnotes/service"

	"github.com/gin-gonic/gin"
)

// NoteAPI exposes the note CRUD and analysis endpoints. Handlers only
// translate HTTP to service calls; the owner id always comes from the
// verified token, never from the request.
type NoteAPI struct {
	service *service.NoteService
}

func NewNoteAPI(s *service.NoteService) *NoteAPI {
	return &NoteAPI{service: s}
}

// List returns the caller's notes, newest first. ?search= matches the title
// case-insensitively, ?tag= filters by category.
func (n *NoteAPI) List(c *gin.Context) {
	userID := c.GetUint64("user_id")
	notes, err := n.service.List(userID, c.Query("search"), c.Query("tag"))
	if err != nil {
		metrics.IncNoteOp("list", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notes, please try again"})
		return
	}
	metrics.IncNoteOp("list", "success")
	c.JSON(http.StatusOK, notes)
}

// Create inserts a new note; a duplicate title within the caller's notes is
// a 400 conflict.
func (n *NoteAPI) Create(c *gin.Context) {
	var req request.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncNoteOp("create", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetUint64("user_id")
	note, err := n.service.Create(userID, req.Title, req.Content, req.Tag)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleTaken):
			metrics.IncNoteOp("create", "conflict")
			c.JSON(http.StatusBadRequest, gin.H{"error": "this note title is already used"})
		case errors.Is(err, service.ErrEmptyTitle), errors.Is(err, service.ErrEmptyContent):
			metrics.IncNoteOp("create", "bad_request")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			metrics.IncNoteOp("create", "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note, please try again"})
		}
		return
	}
	metrics.IncNoteOp("create", "success")
	c.JSON(http.StatusCreated, note)
}

// Update applies a partial update; renaming into another of the caller's
// titles is a 400 conflict, unowned ids are 404.
func (n *NoteAPI) Update(c *gin.Context) {
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}
	var req request.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncNoteOp("update", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetUint64("user_id")
	note, err := n.service.Update(userID, noteID, req.Title, req.Content, req.Tag)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoteNotFound):
			metrics.IncNoteOp("update", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		case errors.Is(err, service.ErrTitleTaken):
			metrics.IncNoteOp("update", "conflict")
			c.JSON(http.StatusBadRequest, gin.H{"error": "you already have a note with this title"})
		default:
			metrics.IncNoteOp("update", "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update note, please try again"})
		}
		return
	}
	metrics.IncNoteOp("update", "success")
	c.JSON(http.StatusOK, note)
}

// Delete removes an owned note.
func (n *NoteAPI) Delete(c *gin.Context) {
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	if err := n.service.Delete(userID, noteID); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			metrics.IncNoteOp("delete", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		metrics.IncNoteOp("delete", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
		return
	}
	metrics.IncNoteOp("delete", "success")
	c.JSON(http.StatusOK, gin.H{"message": "note deleted successfully"})
}

// Summarize runs the analysis capability and returns the note with its
// summary populated.
func (n *NoteAPI) Summarize(c *gin.Context) {
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	note, err := n.service.Summarize(c.Request.Context(), userID, noteID)
	if err != nil {
		metrics.IncAnalysis("summary", "error")
		analysisErrorResponse(c, err, "failed to summarize note, please try again")
		return
	}
	metrics.IncAnalysis("summary", "success")
	c.JSON(http.StatusOK, note)
}

// ExtractKeywords runs the analysis capability and returns the note with
// its keywords populated.
func (n *NoteAPI) ExtractKeywords(c *gin.Context) {
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	note, err := n.service.ExtractKeywords(c.Request.Context(), userID, noteID)
	if err != nil {
		metrics.IncAnalysis("keywords", "error")
		analysisErrorResponse(c, err, "failed to extract keywords, please try again")
		return
	}
	metrics.IncAnalysis("keywords", "success")
	c.JSON(http.StatusOK, note)
}

func noteIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		// Malformed ids get the same answer as unowned ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return 0, false
	}
	return id, true
}

func analysisErrorResponse(c *gin.Context, err error, fallback string) {
	var capErr *analysis.CapabilityError
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
	case errors.Is(err, analysis.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &capErr):
		// The capability reported its own message; pass it along.
		c.JSON(http.StatusBadGateway, gin.H{"error": capErr.Message})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	}
}
