package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/marginalia/internal/log"
)

var (
	errNotNormalized = errors.New("input is not normalized")
	errUnstable      = errors.New("normalization is not idempotent")
)

func newNormalizeCmd(a *app) *cobra.Command {
	var diff, check bool
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Round-trip note HTML through the codec",
		Long: `Parse note HTML and serialize it again, printing the canonical form.

Reads stdin when no file is given.

Examples:
  marginalia normalize note.html
  marginalia normalize --diff < note.html
  marginalia normalize --check note.html`,
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

			out := codec.Normalize(in)
			if again := codec.Normalize(out); again != out {
				log.Error(log.CatCLI, "Unstable normalization", "first", out, "second", again)
				return fmt.Errorf("%w:\n%s", errUnstable, wordDiff(out, again))
			}

			w := cmd.OutOrStdout()
			switch {
			case check:
				if out != in {
					return errNotNormalized
				}
				_, err = fmt.Fprintln(w, "normalized")
			case diff:
				if out == in {
					return nil
				}
				_, err = fmt.Fprintln(w, wordDiff(in, out))
			default:
				_, err = fmt.Fprintln(w, out)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "print the changes normalization makes instead of the result")
	cmd.Flags().BoolVar(&check, "check", false, "fail unless the input is already normalized")
	return cmd
}
