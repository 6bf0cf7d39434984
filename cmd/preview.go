package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/marginalia/internal/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show note HTML as styled terminal text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			codec, err := a.codec(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			r := preview.New(cmd.OutOrStdout(), preview.WithWidth(width))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(r.Render(codec.Parse(in)), "\n"))
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap width in cells (0 disables wrapping)")
	return cmd
}
