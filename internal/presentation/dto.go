package presentation

import (
	"time"

	"github.com/zjrosen/marginalia/internal/infrastructure/sqlite"
	"github.com/zjrosen/marginalia/internal/styled"
)

// NoteDTO represents a stored note for presentation
type NoteDTO struct {
	ID          string    `json:"id"`
	Book        string    `json:"book"`
	ContentHTML string    `json:"content_html"`
	IdeaHTML    string    `json:"idea_html,omitempty"`
	Runs        []RunDTO  `json:"runs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RunDTO is one attribute run of the note content.
type RunDTO struct {
	Text    string   `json:"text"`
	Formats []string `json:"formats,omitempty"`
	Link    string   `json:"link,omitempty"`
	Color   string   `json:"color,omitempty"` // stored highlight color, #AARRGGBB
}

// FromRuns converts the runs of t to DTOs.
func FromRuns(t *styled.Text) []RunDTO {
	runs := make([]RunDTO, 0)
	if t == nil {
		return runs
	}
	for _, r := range t.Runs() {
		dto := RunDTO{Text: t.Slice(r.Start, r.End).String(), Link: r.Attrs.Link}
		for _, k := range styled.Kinds {
			if r.Attrs.Has(k) {
				dto.Formats = append(dto.Formats, k.String())
			}
		}
		if !r.Attrs.Highlight.IsZero() {
			dto.Color = r.Attrs.Highlight.Stored().String()
		}
		runs = append(runs, dto)
	}
	return runs
}

// FromNote converts a stored note and its parsed content to a DTO.
func FromNote(n sqlite.Note, content *styled.Text) NoteDTO {
	return NoteDTO{
		ID:          n.ID,
		Book:        n.Book,
		ContentHTML: n.ContentHTML,
		IdeaHTML:    n.IdeaHTML,
		Runs:        FromRuns(content),
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
