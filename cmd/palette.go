package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/marginalia/internal/highlight"
)

func newPaletteCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List the highlight colors",
		Long: `List the highlight palette: the light-mode color stored in note HTML,
its dark-mode display color, and the signed integer the Android client
writes into background-color.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			lg := lipgloss.NewRenderer(w)
			swatch := func(c highlight.ARGB) string {
				return lg.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
			}
			if _, err := fmt.Fprintf(w, "%-3s %-8s %-8s %12s\n", "#", "LIGHT", "DARK", "ANDROID"); err != nil {
				return err
			}
			for i, e := range highlight.Palette() {
				_, err := fmt.Fprintf(w, "%-3d %-8s %-8s %12d %s %s\n",
					i, e.Light.Hex(), e.Dark.Hex(), e.Light.AndroidInt(), swatch(e.Light), swatch(e.Dark))
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}
