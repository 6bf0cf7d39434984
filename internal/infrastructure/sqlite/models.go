package sqlite

import (
	"fmt"
	"time"
)

// Note is one row of the notes table. ContentHTML holds the excerpt and
// IdeaHTML the reader's annotation, both in the wire HTML dialect.
type Note struct {
	ID          string
	Book        string
	ContentHTML string
	IdeaHTML    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// noteModel maps directly to SQL columns with Unix timestamps.
type noteModel struct {
	ID          string
	Book        string
	ContentHTML string
	IdeaHTML    string
	CreatedAt   int64
	UpdatedAt   int64
}

func (m *noteModel) toNote() Note {
	return Note{
		ID:          m.ID,
		Book:        m.Book,
		ContentHTML: m.ContentHTML,
		IdeaHTML:    m.IdeaHTML,
		CreatedAt:   time.Unix(m.CreatedAt, 0).UTC(),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0).UTC(),
	}
}

// NoteNotFoundError is returned when no row has the requested id.
type NoteNotFoundError struct {
	ID string
}

func (e *NoteNotFoundError) Error() string {
	return fmt.Sprintf("note not found: %s", e.ID)
}

// NotFound reports that the error is a missing row.
func (e *NoteNotFoundError) NotFound() bool { return true }
