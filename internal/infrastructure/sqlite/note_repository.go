package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/marginalia/internal/log"
)

const noteColumns = `id, book, content_html, idea_html, created_at, updated_at`

// NoteRepository reads and writes note rows.
type NoteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewNoteRepository creates a repository on db.
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db, now: time.Now}
}

func scanNote(scanner interface{ Scan(...any) error }) (*noteModel, error) {
	var m noteModel
	err := scanner.Scan(&m.ID, &m.Book, &m.ContentHTML, &m.IdeaHTML, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

// Create inserts a note with a fresh id and returns it.
func (r *NoteRepository) Create(ctx context.Context, book, contentHTML, ideaHTML string) (Note, error) {
	now := r.now().Unix()
	m := noteModel{
		ID:          uuid.NewString(),
		Book:        book,
		ContentHTML: contentHTML,
		IdeaHTML:    ideaHTML,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Book, m.ContentHTML, m.IdeaHTML, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return Note{}, fmt.Errorf("failed to insert note: %w", err)
	}
	log.Debug(log.CatDB, "Created note", "id", m.ID, "book", book)
	return m.toNote(), nil
}

// Get returns the note with id, or *NoteNotFoundError.
func (r *NoteRepository) Get(ctx context.Context, id string) (Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	m, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, &NoteNotFoundError{ID: id}
	}
	if err != nil {
		return Note{}, fmt.Errorf("failed to find note: %w", err)
	}
	return m.toNote(), nil
}

// ReadNoteHTML returns the two HTML fields of a note.
func (r *NoteRepository) ReadNoteHTML(ctx context.Context, id string) (contentHTML, ideaHTML string, err error) {
	n, err := r.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	return n.ContentHTML, n.IdeaHTML, nil
}

// WriteNoteHTML replaces the two HTML fields of a note.
func (r *NoteRepository) WriteNoteHTML(ctx context.Context, id, contentHTML, ideaHTML string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET content_html = ?, idea_html = ?, updated_at = ? WHERE id = ?`,
		contentHTML, ideaHTML, r.now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &NoteNotFoundError{ID: id}
	}
	return nil
}

// List returns notes oldest first. A non-empty book restricts the result
// to that book.
func (r *NoteRepository) List(ctx context.Context, book string) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes`
	var args []any
	if book != "" {
		query += ` WHERE book = ?`
		args = append(args, book)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notes []Note
	for rows.Next() {
		m, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, m.toNote())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &NoteNotFoundError{ID: id}
	}
	return nil
}
