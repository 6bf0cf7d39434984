// Package presentation formats notes as JSON for scripting.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatNotes formats a list of notes as JSON
func (f *Formatter) FormatNotes(notes []NoteDTO) error {
	if notes == nil {
		notes = []NoteDTO{}
	}
	return f.encode(notes)
}

// FormatNote formats a single note as JSON
func (f *Formatter) FormatNote(note NoteDTO) error {
	return f.encode(note)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
