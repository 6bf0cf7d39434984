package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/notehtml"
	"github.com/zjrosen/marginalia/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		debounce time.Duration
		ext      string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Normalize note files in a directory as they change",
		Long: `Watch a directory and rewrite changed note files in normalized form.
A rewritten file triggers one more change event, which finds it already
normalized, so nothing loops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := a.codec(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cfg := watcher.DefaultConfig(args[0])
			cfg.DebounceDur = debounce
			cfg.Ext = ext

			w, err := watcher.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()
			batches, err := w.Start()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if verbose {
				echoLog(ctx, cmd.ErrOrStderr())
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for %s files\n", args[0], cfg.Ext)

			for {
				select {
				case <-ctx.Done():
					return nil
				case paths, ok := <-batches:
					if !ok {
						return nil
					}
					for _, p := range paths {
						changed, err := normalizeFile(codec, p)
						if err != nil {
							log.ErrorErr(log.CatWatcher, "Failed to normalize file", err, "path", p)
							fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", p, err)
							continue
						}
						if changed {
							fmt.Fprintf(cmd.OutOrStdout(), "normalized %s\n", p)
						}
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before a batch of changes is processed")
	cmd.Flags().StringVar(&ext, "ext", ".html", "extension of note files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "echo log activity to stderr")
	return cmd
}

// normalizeFile rewrites path in normalized form and reports whether it
// changed.
func normalizeFile(codec *notehtml.Codec, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading: %w", err)
	}
	in := trimEOL(string(data))
	out := codec.Normalize(in)
	if out == in {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}
	if err := os.WriteFile(path, []byte(out+"\n"), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing: %w", err)
	}
	log.Info(log.CatWatcher, "Normalized file", "path", path, "before", len(in), "after", len(out))
	return true, nil
}

// echoLog copies log entries to w until ctx is done. Without a --debug log
// file the entries are only echoed.
func echoLog(ctx context.Context, w io.Writer) {
	ch := log.NewListener(ctx)
	if ch == nil {
		log.InitWriter(io.Discard, log.LevelInfo)
		ch = log.NewListener(ctx)
	}
	go func() {
		for ev := range ch {
			_, _ = io.WriteString(w, strings.TrimRight(ev.Payload, "\n")+"\n")
		}
	}()
}
