package service

import (
	"context"
	"errors"

	"smartnotes/dao"
	"smartnotes/internal/analysis"
	"smartnotes/internal/plaintext"
	"smartnotes/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrTitleTaken   = errors.New("this note title is already used")
	ErrEmptyTitle   = errors.New("note title cannot be empty")
	ErrEmptyContent = errors.New("note content cannot be empty")
)

// NoteService owns the note rules: per-owner title uniqueness, the
// non-empty-content invariant, and the analysis round trips. All operations
// take the verified owner id; nothing here can cross user boundaries.
type NoteService struct {
	dao      *dao.NoteDAO
	analyzer analysis.Analyzer
}

func NewNoteService(dao *dao.NoteDAO, analyzer analysis.Analyzer) *NoteService {
	return &NoteService{dao: dao, analyzer: analyzer}
}

// List returns the owner's notes newest first, with optional title search
// and tag filter.
func (s *NoteService) List(userID uint64, search, tag string) ([]model.Note, error) {
	return s.dao.List(userID, search, tag)
}

// Create inserts a new note for the owner. The existence pre-check gives a
// clean conflict message; the (user_id, title) unique index is what actually
// decides races between concurrent creates.
func (s *NoteService) Create(userID uint64, title, content, tag string) (*model.Note, error) {
	if plaintext.Strip(title) == "" {
		return nil, ErrEmptyTitle
	}
	if plaintext.Empty(content) {
		return nil, ErrEmptyContent
	}
	if tag == "" {
		tag = model.TagPersonal
	}

	if _, err := s.dao.GetByTitle(userID, title); err == nil {
		return nil, ErrTitleTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	note := &model.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
		Tag:     tag,
	}
	if err := s.dao.CreateNote(note); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}
	return note, nil
}

// Update applies the provided fields to an owned note. Empty fields leave
// the prior value untouched: an empty-string update is indistinguishable
// from "no change", deliberately kept from the original behavior.
func (s *NoteService) Update(userID, noteID uint64, title, content, tag string) (*model.Note, error) {
	note, err := s.dao.GetOwned(userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	// Renaming onto the note's own title is always fine; only a different
	// existing title of the same owner conflicts.
	if title != "" && title != note.Title {
		if _, err := s.dao.GetByTitle(userID, title); err == nil {
			return nil, ErrTitleTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		note.Title = title
	}
	if content != "" {
		note.Content = content
	}
	if tag != "" {
		note.Tag = tag
	}

	if err := s.dao.SaveNote(note); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}
	return note, nil
}

// Delete removes an owned note. Unowned ids report not-found, never the
// existence of someone else's note.
func (s *NoteService) Delete(userID, noteID uint64) error {
	affected, err := s.dao.DeleteOwned(userID, noteID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Summarize runs the analysis capability over the note's content and
// persists the returned summary.
func (s *NoteService) Summarize(ctx context.Context, userID, noteID uint64) (*model.Note, error) {
	note, err := s.dao.GetOwned(userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	summary, err := s.analyzer.Summarize(ctx, note.Content)
	if err != nil {
		return nil, err
	}
	note.Summary = summary
	if err := s.dao.SaveNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

// ExtractKeywords runs the analysis capability over the note's content and
// persists the returned keyword list.
func (s *NoteService) ExtractKeywords(ctx context.Context, userID, noteID uint64) (*model.Note, error) {
	note, err := s.dao.GetOwned(userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	keywords, err := s.analyzer.ExtractKeywords(ctx, note.Content)
	if err != nil {
		return nil, err
	}
	note.Keywords = keywords
	if err := s.dao.SaveNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
