package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/zjrosen/marginalia/internal/export"
	"github.com/zjrosen/marginalia/internal/presentation"
	"github.com/zjrosen/marginalia/internal/preview"
)

const excerptWidth = 48

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage the local note database",
	}
	cmd.AddCommand(
		newNoteAddCmd(a),
		newNoteShowCmd(a),
		newNoteListCmd(a),
		newNoteNormalizeCmd(a),
		newNoteExportCmd(a),
		newNoteRmCmd(a),
	)
	return cmd
}

func newNoteAddCmd(a *app) *cobra.Command {
	var book, content, idea string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a note and print its id",
		Long: `Store a note. Content is the highlighted excerpt and idea the reader's
annotation, both as note HTML. "--content -" reads the content from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if content == "-" {
				in, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				content = in
			}
			svc, repo, err := a.openNotes(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			n, err := repo.Create(ctx, book, "", "")
			if err != nil {
				return err
			}
			if err := svc.SaveHTML(ctx, n.ID, content, idea); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			return err
		},
	}
	cmd.Flags().StringVarP(&book, "book", "b", "", "book the note belongs to")
	cmd.Flags().StringVar(&content, "content", "", "excerpt HTML (- for stdin)")
	cmd.Flags().StringVar(&idea, "idea", "", "annotation HTML")
	_ = cmd.MarkFlagRequired("book")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newNoteShowCmd(a *app) *cobra.Command {
	var (
		width  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Preview a stored note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, repo, err := a.openNotes(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			row, err := repo.Get(ctx, args[0])
			if err != nil {
				return err
			}
			n, err := svc.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return presentation.NewFormatter(cmd.OutOrStdout()).FormatNote(presentation.FromNote(row, n.Content))
			}

			r := preview.New(cmd.OutOrStdout(), preview.WithWidth(width))
			var b strings.Builder
			fmt.Fprintf(&b, "%s  %s\n\n", row.Book, row.UpdatedAt.Format("2006-01-02 15:04"))
			b.WriteString(strings.TrimSuffix(r.Render(n.Content), "\n"))
			if n.Idea.Len() > 0 {
				b.WriteString("\n\n")
				b.WriteString(strings.TrimSuffix(r.Render(n.Idea), "\n"))
			}
			return writeBlock(cmd.OutOrStdout(), b.String())
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap width in cells (0 disables wrapping)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the note and its runs as JSON")
	return cmd
}

func newNoteListCmd(a *app) *cobra.Command {
	var (
		book   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored notes, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, repo, err := a.openNotes(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			rows, err := repo.List(cmd.Context(), book)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				dtos := make([]presentation.NoteDTO, 0, len(rows))
				for _, row := range rows {
					dtos = append(dtos, presentation.FromNote(row, svc.Codec().Parse(row.ContentHTML)))
				}
				return presentation.NewFormatter(w).FormatNotes(dtos)
			}
			for _, row := range rows {
				excerpt := export.Text(svc.Codec().Parse(row.ContentHTML))
				excerpt = strings.Join(strings.Fields(excerpt), " ")
				if _, err := fmt.Fprintf(w, "%s  %s  %s\n", row.ID, row.Book, ansi.Truncate(excerpt, excerptWidth, "…")); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&book, "book", "b", "", "only list notes from this book")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print notes as JSON")
	return cmd
}

func newNoteNormalizeCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "normalize [id...]",
		Short: "Rewrite stored notes in normalized form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("give note ids or --all")
			}
			svc, repo, err := a.openNotes(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ids := args
			if all {
				rows, err := repo.List(ctx, "")
				if err != nil {
					return err
				}
				for _, row := range rows {
					ids = append(ids, row.ID)
				}
			}
			for _, id := range ids {
				changed, err := svc.Normalize(ctx, id)
				if err != nil {
					return err
				}
				status := "unchanged"
				if changed {
					status = "normalized"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, status); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "normalize every stored note")
	return cmd
}

func newNoteExportCmd(a *app) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a stored note to Markdown or plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.openNotes(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			n, err := svc.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			dark := svc.Codec().Engine().DarkMode()
			content, err := opts.convert(a, n.Content, dark)
			if err != nil {
				return err
			}
			if n.Idea.Len() == 0 {
				return writeBlock(cmd.OutOrStdout(), content)
			}
			idea, err := opts.convert(a, n.Idea, dark)
			if err != nil {
				return err
			}
			return writeBlock(cmd.OutOrStdout(), strings.TrimRight(content, "\n")+"\n\n"+idea)
		},
	}
	opts.register(cmd)
	return cmd
}

func newNoteRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a stored note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, err := a.openNotes(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return repo.Delete(cmd.Context(), args[0])
		},
	}
}
