package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/marginalia/internal/export"
	"github.com/zjrosen/marginalia/internal/flags"
	"github.com/zjrosen/marginalia/internal/styled"
)

// exportOptions are the flags shared by export and note export.
type exportOptions struct {
	format string
	render bool
	width  int
	style  string
}

func (o *exportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "markdown", "output format: markdown or text")
	cmd.Flags().BoolVar(&o.render, "render", false, "render markdown for the terminal")
	cmd.Flags().IntVarP(&o.width, "width", "w", 80, "wrap width for --render")
	cmd.Flags().StringVar(&o.style, "style", "", "render style: dark, light, notty or ascii (default follows display.mode)")
}

// convert returns t in the selected format.
func (o *exportOptions) convert(a *app, t *styled.Text, dark bool) (string, error) {
	switch o.format {
	case "text":
		return export.Text(t), nil
	case "markdown", "md":
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or text)", o.format)
	}
	if !a.flags.Enabled(flags.FlagMarkdownExport) {
		return "", fmt.Errorf("markdown export is disabled (flags.%s)", flags.FlagMarkdownExport)
	}

	md := export.Markdown(t)
	if !o.render {
		return md, nil
	}
	style := o.style
	if style == "" {
		style = "light"
		if dark {
			style = "dark"
		}
	}
	r, err := export.NewRenderer(o.width, style)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func writeBlock(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(s, "\n"))
	return err
}

func newExportCmd(a *app) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Convert note HTML to Markdown or plain text",
		Long: `Convert note HTML to Markdown or plain text.

Markdown uses **bold**, *italic*, ~~strike~~, ==highlight== and [links](url).
Underline has no Markdown form and is dropped.

Examples:
  marginalia export note.html
  marginalia export --format text < note.html
  marginalia export --render note.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			codec, err := a.codec(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			out, err := opts.convert(a, codec.Parse(in), codec.Engine().DarkMode())
			if err != nil {
				return err
			}
			return writeBlock(cmd.OutOrStdout(), out)
		},
	}
	opts.register(cmd)
	return cmd
}
