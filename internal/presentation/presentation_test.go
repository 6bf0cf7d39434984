package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/marginalia/internal/infrastructure/sqlite"
	"github.com/zjrosen/marginalia/internal/notehtml"
)

func TestFromRuns(t *testing.T) {
	runs := FromRuns(notehtml.Parse(`<b>x</b><mark style="background-color:-399457">y</mark><a href="https://x.y">z</a>`))
	require.Equal(t, []RunDTO{
		{Text: "x", Formats: []string{"bold"}},
		{Text: "y", Formats: []string{"highlight"}, Color: "#FFF9E79F"},
		{Text: "z", Formats: []string{"link"}, Link: "https://x.y"},
	}, runs)

	require.Empty(t, FromRuns(nil))
	require.NotNil(t, FromRuns(nil))
}

func TestFormatter(t *testing.T) {
	ts := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	row := sqlite.Note{ID: "n1", Book: "Walden", ContentHTML: "<ul><li>A</li></ul>", CreatedAt: ts, UpdatedAt: ts}

	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatNotes([]NoteDTO{FromNote(row, notehtml.Parse(row.ContentHTML))}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "n1", got[0]["id"])
	require.Equal(t, "2026-10-14T09:00:00Z", got[0]["created_at"])
	require.NotContains(t, got[0], "idea_html")
	runs := got[0]["runs"].([]any)
	require.Equal(t, "A\n", runs[0].(map[string]any)["text"])

	buf.Reset()
	require.NoError(t, f.FormatNotes(nil))
	require.Equal(t, "[]\n", buf.String())
}
