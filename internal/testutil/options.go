package testutil

import "time"

// noteData holds all data for a note row to be inserted.
type noteData struct {
	id        string
	book      string
	content   string
	idea      string
	createdAt time.Time
	updatedAt time.Time
}

func defaultNote(id string) noteData {
	now := time.Now()
	return noteData{id: id, createdAt: now, updatedAt: now}
}

// NoteOption configures a note row.
type NoteOption func(*noteData)

// Book sets the note's book.
func Book(b string) NoteOption {
	return func(n *noteData) { n.book = b }
}

// Content sets the excerpt HTML.
func Content(html string) NoteOption {
	return func(n *noteData) { n.content = html }
}

// Idea sets the annotation HTML.
func Idea(html string) NoteOption {
	return func(n *noteData) { n.idea = html }
}

// CreatedAt sets both timestamps.
func CreatedAt(at time.Time) NoteOption {
	return func(n *noteData) {
		n.createdAt = at
		n.updatedAt = at
	}
}
