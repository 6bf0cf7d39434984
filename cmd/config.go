package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/marginalia/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show and edit the configuration",
		Annotations: map[string]string{skipValidation: ""},
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a), newConfigSetCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipValidation: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.v.AllSettings())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a commented default config file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipValidation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one setting in the config file",
		Long: `Set one setting, addressed by its dotted key, keeping the rest of the
file and its comments intact.

Examples:
  marginalia config set interchange.nesting quote_then_bullet
  marginalia config set display.mode dark
  marginalia config set flags.markdown-export false`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipValidation: ""},
		RunE: func(_ *cobra.Command, args []string) error {
			return config.SaveSetting(a.configPath(), args[0], args[1])
		},
	}
}
