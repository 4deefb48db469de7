// Package editor holds the client-side edit session for a single note: the
// change tracker, the Viewing/Editing/Draft state machine, and the
// best-effort analysis round trips. State transitions are explicit and
// atomic; there is no ambient shared state.
package editor

import (
	"context"
	"errors"
	"log"
	"sync"

	"smartnotes/internal/plaintext"
	"smartnotes/model"
)

// Mode is the session's edit state.
type Mode int

const (
	// ModeDraft is a new, never-persisted note; always editable.
	ModeDraft Mode = iota
	// ModeViewing shows a persisted note read-only.
	ModeViewing
	// ModeEditing allows mutating a persisted note's content.
	ModeEditing
)

var (
	// ErrEmptyContent rejects a save locally, before any network call.
	ErrEmptyContent = errors.New("note content cannot be empty")
	// ErrNotEditing rejects a save while the session is read-only.
	ErrNotEditing = errors.New("session is not in editing mode")
	// ErrBusy means the same operation is already in flight.
	ErrBusy = errors.New("operation already in progress")
)

// NoteAPI is the slice of the remote API the session needs. *client.Client
// satisfies it.
type NoteAPI interface {
	CreateNote(ctx context.Context, title, content, tag string) (*model.Note, error)
	UpdateNote(ctx context.Context, id uint64, title, content, tag string) (*model.Note, error)
	SummarizeNote(ctx context.Context, id uint64) (*model.Note, error)
	ExtractNoteKeywords(ctx context.Context, id uint64) (*model.Note, error)
}

// Session mediates between the change tracker, the note API and the
// analysis endpoints for exactly one note context at a time.
type Session struct {
	mu     sync.Mutex
	api    NoteAPI
	logger *log.Logger

	// onRefresh, when set, is called after any server-side mutation so the
	// owning view can re-fetch its note list.
	onRefresh func()

	// epoch increments on every SelectNote. Responses captured under an
	// older epoch are discarded instead of being applied to the wrong note.
	epoch uint64

	note     *model.Note // nil while drafting a new note
	mode     Mode
	content  string
	baseline string
	summary  string
	keywords []string

	saving      bool
	summarizing bool
	extracting  bool
}

func NewSession(api NoteAPI, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{api: api, logger: logger}
	s.resetToDraft()
	return s
}

// SetRefreshHook installs the callback run after successful saves and
// analysis calls.
func (s *Session) SetRefreshHook(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

// SelectNote switches the session to the given note, or to a fresh draft
// when note is nil. Baseline and current content are set together in one
// transition; a stale baseline compared against new content would corrupt
// change tracking.
func (s *Session) SelectNote(note *model.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	if note == nil {
		s.resetToDraft()
		return
	}
	s.note = note
	s.mode = ModeViewing
	s.content = note.Content
	s.baseline = note.Content
	s.summary = note.Summary
	s.keywords = note.Keywords
	s.saving = false
	s.summarizing = false
	s.extracting = false
}

func (s *Session) resetToDraft() {
	s.note = nil
	s.mode = ModeDraft
	s.content = ""
	s.baseline = ""
	s.summary = ""
	s.keywords = nil
	s.saving = false
	s.summarizing = false
	s.extracting = false
}

// SetContent records the live editor content. Ignored while read-only.
func (s *Session) SetContent(rich string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeViewing {
		return
	}
	s.content = rich
}

// Mode returns the current edit state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Note returns the persisted note backing the session, nil for a draft.
func (s *Session) Note() *model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}

// Content returns the live editor content.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Summary returns the locally known summary.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Keywords returns the locally known keywords.
func (s *Session) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords
}

// HasChanges reports whether the current content differs meaningfully from
// the last-persisted baseline.
func (s *Session) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Changed(s.content, s.baseline)
}

// CanSave is the guard behind the "Save" affordance: editable, changed, and
// non-empty (the emptiness check is already part of Changed).
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeViewing {
		return false
	}
	return Changed(s.content, s.baseline)
}

// Edit enters editing for a persisted note; no-op in any other state.
func (s *Session) Edit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeViewing {
		s.mode = ModeEditing
	}
}

// Cancel discards in-progress edits. With a persisted note the content
// reverts to the baseline and the session returns to Viewing; a draft just
// clears to empty.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.mode {
	case ModeEditing:
		s.content = s.baseline
		s.mode = ModeViewing
	case ModeDraft:
		s.content = ""
	}
}

// Save validates locally, then persists through the API: update when a note
// backs the session, create otherwise. API errors are returned unmodified
// and the session stays editable; no optimistic state is kept. A save that
// completes after the user switched notes is discarded.
func (s *Session) Save(ctx context.Context, title, tag string) (*model.Note, error) {
	s.mu.Lock()
	if s.mode == ModeViewing {
		s.mu.Unlock()
		return nil, ErrNotEditing
	}
	if s.saving {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	content := s.content
	if plaintext.Empty(content) {
		s.mu.Unlock()
		return nil, ErrEmptyContent
	}
	note := s.note
	epoch := s.epoch
	s.saving = true
	s.mu.Unlock()

	var saved *model.Note
	var err error
	if note != nil {
		saved, err = s.api.UpdateNote(ctx, note.ID, title, content, tag)
	} else {
		saved, err = s.api.CreateNote(ctx, title, content, tag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		return nil, err
	}
	if s.epoch != epoch {
		// The user moved on; the result no longer belongs to this session.
		return saved, nil
	}
	s.note = saved
	s.content = saved.Content
	s.baseline = saved.Content
	s.mode = ModeViewing
	if s.onRefresh != nil {
		s.onRefresh()
	}
	return saved, nil
}

// Summarize asks the server to summarize the backing note. Best-effort:
// failures are logged and the prior summary is left untouched; the caller
// never sees an error. Re-invocation while in flight is ignored.
func (s *Session) Summarize(ctx context.Context) {
	s.mu.Lock()
	if s.note == nil || s.summarizing {
		s.mu.Unlock()
		return
	}
	id := s.note.ID
	epoch := s.epoch
	s.summarizing = true
	s.mu.Unlock()

	updated, err := s.api.SummarizeNote(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summarizing = false
	if err != nil {
		s.logger.Printf("summarize note %d failed: %v", id, err)
		return
	}
	if s.epoch != epoch {
		// A different note is selected now; applying the summary here
		// would attach it to the wrong session.
		return
	}
	s.summary = updated.Summary
	s.note = updated
	if s.onRefresh != nil {
		s.onRefresh()
	}
}

// ExtractKeywords mirrors Summarize for the keyword list.
func (s *Session) ExtractKeywords(ctx context.Context) {
	s.mu.Lock()
	if s.note == nil || s.extracting {
		s.mu.Unlock()
		return
	}
	id := s.note.ID
	epoch := s.epoch
	s.extracting = true
	s.mu.Unlock()

	updated, err := s.api.ExtractNoteKeywords(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracting = false
	if err != nil {
		s.logger.Printf("extract keywords for note %d failed: %v", id, err)
		return
	}
	if s.epoch != epoch {
		return
	}
	s.keywords = updated.Keywords
	s.note = updated
	if s.onRefresh != nil {
		s.onRefresh()
	}
}
