package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/marginalia/internal/infrastructure/sqlite"
)

// Builder accumulates note rows and inserts them with fixed ids.
type Builder struct {
	t     *testing.T
	db    *sqlite.DB
	notes []noteData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithNote adds a note with optional configuration.
func (b *Builder) WithNote(id string, opts ...NoteOption) *Builder {
	n := defaultNote(id)
	for _, opt := range opts {
		opt(&n)
	}
	b.notes = append(b.notes, n)
	return b
}

// Build inserts all accumulated notes.
func (b *Builder) Build() {
	b.t.Helper()
	for _, n := range b.notes {
		_, err := b.db.Connection().Exec(
			`INSERT INTO notes (id, book, content_html, idea_html, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			n.id, n.book, n.content, n.idea, n.createdAt.Unix(), n.updatedAt.Unix(),
		)
		require.NoError(b.t, err, "insert note %s", n.id)
	}
}
