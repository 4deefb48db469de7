package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartnotes/dao"
	"smartnotes/internal/analysis"
	"smartnotes/model"
)

// stubAnalyzer returns canned results without any network round trip.
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Note{}))
	return db
}

func newNoteService(t *testing.T, a analysis.Analyzer) *NoteService {
	t.Helper()
	if a == nil {
		a = &stubAnalyzer{}
	}
	return NewNoteService(dao.NewNoteDAO(newTestDB(t)), a)
}

const (
	user1 = uint64(1)
	user2 = uint64(2)
)

func TestTitleUniquenessIsPerOwner(t *testing.T) {
	s := newNoteService(t, nil)

	// Two different owners may use the same title.
	_, err := s.Create(user1, "Groceries", "<p>milk</p>", "")
	require.NoError(t, err)
	_, err = s.Create(user2, "Groceries", "<p>eggs</p>", "")
	require.NoError(t, err)

	// The same owner may not.
	_, err = s.Create(user1, "Groceries", "<p>again</p>", "")
	assert.ErrorIs(t, err, ErrTitleTaken)
}

func TestCreateValidation(t *testing.T) {
	s := newNoteService(t, nil)

	_, err := s.Create(user1, "   ", "<p>hi</p>", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = s.Create(user1, "Title", "<p><br></p>", "")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = s.Create(user1, "Title", "  \n ", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestCreateDefaultsTagToPersonal(t *testing.T) {
	s := newNoteService(t, nil)
	note, err := s.Create(user1, "Untagged", "<p>hi</p>", "")
	require.NoError(t, err)
	assert.Equal(t, model.TagPersonal, note.Tag)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	s := newNoteService(t, nil)
	_, err := s.Create(user1, "Older", "<p>first</p>", "")
	require.NoError(t, err)
	_, err = s.Create(user1, "Trip", "<p>hi</p>", model.TagWork)
	require.NoError(t, err)

	notes, err := s.List(user1, "", "")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	// Newest first.
	assert.Equal(t, "Trip", notes[0].Title)
	assert.Equal(t, "<p>hi</p>", notes[0].Content)
	assert.Equal(t, model.TagWork, notes[0].Tag)
	assert.Equal(t, "Older", notes[1].Title)
}

func TestListFilters(t *testing.T) {
	s := newNoteService(t, nil)
	mustCreate := func(title, tag string) {
		_, err := s.Create(user1, title, "<p>x</p>", tag)
		require.NoError(t, err)
	}
	mustCreate("Shopping List", model.TagPersonal)
	mustCreate("Research Plan", model.TagResearch)
	mustCreate("Weekly Report", model.TagWork)

	// Case-insensitive title substring.
	notes, err := s.List(user1, "sHoP", "")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Shopping List", notes[0].Title)

	// Tag equality.
	notes, err = s.List(user1, "", model.TagResearch)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Research Plan", notes[0].Title)

	// Another user sees nothing.
	notes, err = s.List(user2, "", "")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestUpdateKeepsOwnTitle(t *testing.T) {
	s := newNoteService(t, nil)
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	// Re-saving with the unchanged title is never a conflict.
	updated, err := s.Update(user1, note.ID, "Trip", "<p>hi there</p>", "")
	require.NoError(t, err)
	assert.Equal(t, "Trip", updated.Title)
	assert.Equal(t, "<p>hi there</p>", updated.Content)
}

func TestUpdateRenameConflictsWithinOwner(t *testing.T) {
	s := newNoteService(t, nil)
	_, err := s.Create(user1, "Trip", "<p>a</p>", "")
	require.NoError(t, err)
	other, err := s.Create(user1, "Groceries", "<p>b</p>", "")
	require.NoError(t, err)

	_, err = s.Update(user1, other.ID, "Trip", "", "")
	assert.ErrorIs(t, err, ErrTitleTaken)
}

func TestUpdateEmptyFieldsKeepPriorValues(t *testing.T) {
	s := newNoteService(t, nil)
	note, err := s.Create(user1, "Trip", "<p>hi</p>", model.TagWork)
	require.NoError(t, err)

	updated, err := s.Update(user1, note.ID, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Trip", updated.Title)
	assert.Equal(t, "<p>hi</p>", updated.Content)
	assert.Equal(t, model.TagWork, updated.Tag)
}

func TestUpdateUnownedNoteIsNotFound(t *testing.T) {
	s := newNoteService(t, nil)
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	_, err = s.Update(user2, note.ID, "Stolen", "", "")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// And nothing leaked or changed.
	kept, err := s.Update(user1, note.ID, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Trip", kept.Title)
}

func TestDeleteUnownedNoteIsNotFound(t *testing.T) {
	s := newNoteService(t, nil)
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(user2, note.ID), ErrNoteNotFound)
	require.NoError(t, s.Delete(user1, note.ID))
	assert.ErrorIs(t, s.Delete(user1, note.ID), ErrNoteNotFound)
}

func TestUniqueIndexIsAuthoritative(t *testing.T) {
	// The service pre-check is advisory; the composite index must reject a
	// duplicate that slips past it (two concurrent creates racing).
	db := newTestDB(t)
	noteDAO := dao.NewNoteDAO(db)

	require.NoError(t, noteDAO.CreateNote(&model.Note{UserID: user1, Title: "Race", Content: "<p>a</p>", Tag: model.TagPersonal}))
	err := noteDAO.CreateNote(&model.Note{UserID: user1, Title: "Race", Content: "<p>b</p>", Tag: model.TagPersonal})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Different owner, same title: no constraint violation.
	require.NoError(t, noteDAO.CreateNote(&model.Note{UserID: user2, Title: "Race", Content: "<p>c</p>", Tag: model.TagPersonal}))
}

func TestSummarizePersistsResult(t *testing.T) {
	s := newNoteService(t, &stubAnalyzer{summary: "a short summary"})
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	updated, err := s.Summarize(context.Background(), user1, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "a short summary", updated.Summary)

	// Persisted, not just returned.
	notes, err := s.List(user1, "", "")
	require.NoError(t, err)
	assert.Equal(t, "a short summary", notes[0].Summary)
}

func TestSummarizeAnalyzerFailurePropagates(t *testing.T) {
	capErr := &analysis.CapabilityError{Message: "model unavailable"}
	s := newNoteService(t, &stubAnalyzer{err: capErr})
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), user1, note.ID)
	var got *analysis.CapabilityError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "model unavailable", got.Message)

	// The stored note keeps its prior (empty) summary.
	notes, err := s.List(user1, "", "")
	require.NoError(t, err)
	assert.Equal(t, "", notes[0].Summary)
}

func TestSummarizeUnownedNoteIsNotFound(t *testing.T) {
	s := newNoteService(t, &stubAnalyzer{summary: "x"})
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), user2, note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestExtractKeywordsPersistsResult(t *testing.T) {
	s := newNoteService(t, &stubAnalyzer{keywords: []string{"alpha", "beta"}})
	note, err := s.Create(user1, "Trip", "<p>hi</p>", "")
	require.NoError(t, err)

	updated, err := s.ExtractKeywords(context.Background(), user1, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, updated.Keywords)

	notes, err := s.List(user1, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, notes[0].Keywords)
}
