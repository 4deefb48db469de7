package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartnotes/dao"
	"smartnotes/internal/analysis"
	myvalidator "smartnotes/internal/validator"
	"smartnotes/model"
	"smartnotes/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notetag", myvalidator.IsNoteTag)
	}
	os.Exit(m.Run())
}

type stubAnalyzer struct {
	summary  string
	keywords []string
	err      error
}

func (a *stubAnalyzer) Summarize(context.Context, string) (string, error) {
	return a.summary, a.err
}

func (a *stubAnalyzer) ExtractKeywords(context.Context, string) ([]string, error) {
	return a.keywords, a.err
}

// newNoteRouter wires the note handlers over an in-memory database. The
// identity middleware is replaced by one that injects the given user id, so
// handler status mapping is tested without Redis or tokens.
func newNoteRouter(t *testing.T, a analysis.Analyzer) (*gin.Engine, *service.NoteService) {
	t.Helper()
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Note{}))

	if a == nil {
		a = &stubAnalyzer{}
	}
	noteService := service.NewNoteService(dao.NewNoteDAO(db), a)
	noteAPI := NewNoteAPI(noteService)

	r := gin.New()
	group := r.Group("/api/v1", func(c *gin.Context) {
		var uid uint64
		fmt.Sscanf(c.GetHeader("X-Test-User-ID"), "%d", &uid)
		c.Set("user_id", uid)
	})
	{
		group.GET("/notes", noteAPI.List)
		group.POST("/notes", noteAPI.Create)
		group.PUT("/notes/:id", noteAPI.Update)
		group.DELETE("/notes/:id", noteAPI.Delete)
		group.POST("/notes/:id/summarize", noteAPI.Summarize)
		group.POST("/notes/:id/keywords", noteAPI.ExtractKeywords)
	}
	return r, noteService
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, userID uint64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User-ID", fmt.Sprintf("%d", userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateNoteStatuses(t *testing.T) {
	r, _ := newNoteRouter(t, nil)

	body := gin.H{"title": "Trip", "content": "<p>hi</p>", "tag": "work"}
	w := doJSON(t, r, http.MethodPost, "/api/v1/notes", 1, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var note model.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, "Trip", note.Title)
	assert.Equal(t, "work", note.Tag)

	// Same owner, same title: conflict.
	w = doJSON(t, r, http.MethodPost, "/api/v1/notes", 1, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "this note title is already used", errMessage(t, w))

	// Different owner, same title: fine.
	w = doJSON(t, r, http.MethodPost, "/api/v1/notes", 2, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateNoteRejectsUnknownTag(t *testing.T) {
	r, _ := newNoteRouter(t, nil)
	body := gin.H{"title": "Trip", "content": "<p>hi</p>", "tag": "groceries"}
	w := doJSON(t, r, http.MethodPost, "/api/v1/notes", 1, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNoteRejectsEmptyContent(t *testing.T) {
	r, _ := newNoteRouter(t, nil)
	body := gin.H{"title": "Trip", "content": "<p><br></p>"}
	w := doJSON(t, r, http.MethodPost, "/api/v1/notes", 1, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "note content cannot be empty", errMessage(t, w))
}

func TestUpdateNoteStatuses(t *testing.T) {
	r, svc := newNoteRouter(t, nil)
	note, err := svc.Create(1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/notes/%d", note.ID), 1,
		gin.H{"content": "<p>hi there</p>"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user's id never reaches the note.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/notes/%d", note.ID), 2,
		gin.H{"content": "<p>stolen</p>"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "note not found", errMessage(t, w))

	// Unknown and malformed ids behave the same.
	w = doJSON(t, r, http.MethodPut, "/api/v1/notes/99999", 1, gin.H{"content": "<p>x</p>"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodPut, "/api/v1/notes/not-a-number", 1, gin.H{"content": "<p>x</p>"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteNoteStatuses(t *testing.T) {
	r, svc := newNoteRouter(t, nil)
	note, err := svc.Create(1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/notes/%d", note.ID), 2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/notes/%d", note.ID), 1, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/notes/%d", note.ID), 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListNotesScopedToOwner(t *testing.T) {
	r, svc := newNoteRouter(t, nil)
	_, err := svc.Create(1, "Mine", "<p>a</p>", "")
	require.NoError(t, err)
	_, err = svc.Create(2, "Theirs", "<p>b</p>", "")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/v1/notes", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []model.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "Mine", notes[0].Title)
}

func TestSummarizeStatuses(t *testing.T) {
	r, svc := newNoteRouter(t, &stubAnalyzer{summary: "a short summary"})
	note, err := svc.Create(1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/notes/%d/summarize", note.ID), 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "a short summary", got.Summary)

	w = doJSON(t, r, http.MethodPost, "/api/v1/notes/99999/summarize", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummarizeCapabilityFailureIsBadGateway(t *testing.T) {
	capErr := &analysis.CapabilityError{Message: "model unavailable"}
	r, svc := newNoteRouter(t, &stubAnalyzer{err: capErr})
	note, err := svc.Create(1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/notes/%d/summarize", note.ID), 1, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	// The capability's own message is passed along.
	assert.Equal(t, "model unavailable", errMessage(t, w))
}

func TestExtractKeywordsStatuses(t *testing.T) {
	r, svc := newNoteRouter(t, &stubAnalyzer{keywords: []string{"alpha", "beta"}})
	note, err := svc.Create(1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/notes/%d/keywords", note.ID), 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"alpha", "beta"}, got.Keywords)
}
