// Package cmd implements the marginalia command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/marginalia/internal/cachemanager"
	"github.com/zjrosen/marginalia/internal/config"
	"github.com/zjrosen/marginalia/internal/flags"
	"github.com/zjrosen/marginalia/internal/infrastructure/sqlite"
	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/notehtml"
	"github.com/zjrosen/marginalia/internal/notes"
	"github.com/zjrosen/marginalia/internal/preview"
	"github.com/zjrosen/marginalia/internal/tracing"
)

var version = "dev"

// skipValidation marks commands that must run even with an invalid config.
const skipValidation = "skip-validation"

// app is the state shared by one invocation of the command tree.
type app struct {
	cfgFile string
	debug   bool

	v       *viper.Viper
	cfg     config.Config
	flags   *flags.Registry
	tracing *tracing.Provider
	closers []func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "marginalia",
		Short: "Normalize, preview and export rich-text reading notes",
		Long: `marginalia works with the HTML dialect the Android reading client stores
notes in: it normalizes it, previews it in the terminal, exports it to
Markdown or plain text, and keeps a local database of notes.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/marginalia/config.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false,
		"write a debug log (path from MARGINALIA_LOG, default debug.log; level from MARGINALIA_LOG_LEVEL)")
	root.PersistentFlags().String("db", "", "note database (overrides storage.path)")
	_ = a.v.BindPFlag("storage.path", root.PersistentFlags().Lookup("db"))

	root.AddCommand(
		newNormalizeCmd(a),
		newPreviewCmd(a),
		newExportCmd(a),
		newPaletteCmd(a),
		newNoteCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)
	return root
}

// run executes the command tree with the given arguments and streams.
func run(args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{v: viper.New(), tracing: tracing.Noop()}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.Execute()
}

// Execute runs the root command.
func Execute() error {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.debug || os.Getenv("MARGINALIA_DEBUG") != "" {
		logPath := os.Getenv("MARGINALIA_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		level, err := log.ParseLevel(os.Getenv("MARGINALIA_LOG_LEVEL"))
		if err != nil {
			return err
		}
		cleanup, err := log.Init(logPath, level)
		if err != nil {
			return fmt.Errorf("initializing log: %w", err)
		}
		a.closers = append(a.closers, cleanup)
		log.Info(log.CatCLI, "marginalia starting", "command", cmd.CommandPath(), "version", version)
	}

	if err := a.loadConfig(); err != nil {
		return err
	}
	if _, skip := cmd.Annotations[skipValidation]; skip {
		return nil
	}
	if err := config.Validate(a.cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.flags = flags.New(a.cfg.Flags)

	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:      a.cfg.Tracing.Enabled,
		Exporter:     a.cfg.Tracing.Exporter,
		FilePath:     a.cfg.Tracing.FilePath,
		OTLPEndpoint: a.cfg.Tracing.OTLPEndpoint,
		SampleRate:   a.cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	a.tracing = tp
	a.closers = append(a.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to shut down tracing", err)
		}
	})
	return nil
}

func (a *app) loadConfig() error {
	defaults := config.Defaults()
	a.v.SetDefault("interchange.nesting", defaults.Interchange.Nesting)
	a.v.SetDefault("interchange.base_font_size", defaults.Interchange.BaseFontSize)
	a.v.SetDefault("font.family", defaults.Font.Family)
	a.v.SetDefault("display.mode", defaults.Display.Mode)
	a.v.SetDefault("storage.path", defaults.Storage.Path)
	a.v.SetDefault("cache.ttl", defaults.Cache.TTL)
	a.v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	a.v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	a.v.SetDefault("tracing.file_path", config.DefaultTracesFilePath())
	a.v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	a.v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	for name, on := range defaults.Flags {
		a.v.SetDefault("flags."+name, on)
	}

	a.v.SetEnvPrefix("MARGINALIA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. .marginalia/config.yaml (current directory)
		// 2. ~/.config/marginalia/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			a.v.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			a.v.AddConfigPath(filepath.Join(home, ".config", "marginalia"))
			a.v.SetConfigName("config")
			a.v.SetConfigType("yaml")
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file, using defaults")
	} else {
		log.Debug(log.CatConfig, "Loaded config", "path", a.v.ConfigFileUsed())
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

const localConfigPath = ".marginalia/config.yaml"

// configPath is the file config set and config init write to.
func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			return used
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return localConfigPath
	}
	return filepath.Join(home, ".config", "marginalia", "config.yaml")
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// codec builds the HTML codec, detecting the terminal background for
// display.mode auto.
func (a *app) codec(out io.Writer) (*notehtml.Codec, error) {
	dark := a.cfg.DarkMode(preview.New(out).HasDarkBackground)
	return a.cfg.Codec(dark)
}

// openNotes opens the note database and a service over it. The database is
// closed with the app.
func (a *app) openNotes(out io.Writer) (*notes.Service, *sqlite.NoteRepository, error) {
	if a.cfg.Storage.Path == "" {
		return nil, nil, errors.New("storage.path is not set")
	}
	codec, err := a.codec(out)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlite.NewDB(a.cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening note database: %w", err)
	}

	cache := cachemanager.NewInMemoryCacheManager[string, notes.Note]("notes", a.cfg.Cache.TTL, 2*a.cfg.Cache.TTL)
	svc := notes.NewService(db.NoteRepository(),
		notes.WithCodec(codec),
		notes.WithFlags(a.flags),
		notes.WithTracer(a.tracing.Tracer()),
		notes.WithCache(cache, a.cfg.Cache.TTL),
	)
	a.closers = append(a.closers, func() {
		svc.Close()
		if err := db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "Failed to close note database", err)
		}
	})
	return svc, db.NoteRepository(), nil
}
