package dao

import (
	"strings"

	"smartnotes/model"

	"gorm.io/gorm"
)

// NoteDAO is the only code that touches the notes table. Every query is
// scoped by owner id; a caller can never reach another user's rows.
type NoteDAO struct {
	db *gorm.DB
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{db: db}
}

// CreateNote inserts a new note. A duplicate (user_id, title) pair trips
// the unique index and surfaces as a duplicated-key error.
func (dao *NoteDAO) CreateNote(note *model.Note) error {
	return dao.db.Create(note).Error
}

// GetOwned fetches a note by id within the owner's scope.
func (dao *NoteDAO) GetOwned(userID, noteID uint64) (*model.Note, error) {
	var note model.Note
	err := dao.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetByTitle fetches the owner's note with the exact title, if any.
func (dao *NoteDAO) GetByTitle(userID uint64, title string) (*model.Note, error) {
	var note model.Note
	err := dao.db.Where("user_id = ? AND title = ?", userID, title).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns the owner's notes newest first, optionally filtered by a
// case-insensitive title substring and/or an exact tag.
func (dao *NoteDAO) List(userID uint64, search, tag string) ([]model.Note, error) {
	query := dao.db.Where("user_id = ?", userID)
	if search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if tag != "" {
		query = query.Where("tag = ?", tag)
	}
	var notes []model.Note
	err := query.Order("created_at DESC, id DESC").Find(&notes).Error
	return notes, err
}

// SaveNote persists all fields of an already-loaded note.
func (dao *NoteDAO) SaveNote(note *model.Note) error {
	return dao.db.Save(note).Error
}

// DeleteOwned removes the owner's note and reports how many rows matched.
func (dao *NoteDAO) DeleteOwned(userID, noteID uint64) (int64, error) {
	res := dao.db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&model.Note{})
	return res.RowsAffected, res.Error
}
