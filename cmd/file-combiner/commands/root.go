/*
Package commands implements the CLI command structure for file-combiner.
The root command runs the pipeline; subcommands cover housekeeping such as
printing the version.
*/
package commands

import (
	"errors"
	"fmt"

	"github.com/jkasimotto/file-combiner/cmd/file-combiner/app"
	"github.com/jkasimotto/file-combiner/internal/config"
	"github.com/jkasimotto/file-combiner/internal/version"
	"github.com/spf13/cobra"
)

// Options holds command-line values that are not part of config.Config
type Options struct {
	ConfigPath string

	// AppOptions are passed to every app.New call, mostly for tests
	AppOptions []app.Option
}

// NewRootCommand creates the root command for the application
func NewRootCommand(appOpts ...app.Option) *cobra.Command {
	opts := &Options{AppOptions: appOpts}

	rootCmd := &cobra.Command{
		Use:   "file-combiner [flags]",
		Short: "Combine multiple files into a single text file",
		Long: `file-combiner v` + version.Version + `
========================================

Finds files under one or more directories, keeps those whose path matches a
regular expression or that you pick interactively, and writes them into one
text file, each preceded by a "// ===== FILE: <path> =====" marker.`,
		Example: `  file-combiner -r '\.go$'
  file-combiner -i -d src,docs -o context.txt
  file-combiner -r '_test\.go$' --dry-run --format tree`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringP("regex", "r", "", "use regex pattern to select files")
	flags.BoolP("interactive", "i", false, "use interactive selection")
	flags.StringP("output", "o", config.DefaultOutput, "output file path")
	flags.StringP("dirs", "d", "", "limit search to specific directories (comma separated)")
	flags.Bool("follow-symlinks", false, "follow symbolic links while searching")
	flags.Int("rate-limit", 0, "maximum files read per second (0 = unlimited)")
	flags.BoolP("dry-run", "n", false, "print the files that would be combined without writing")
	flags.StringP("format", "f", string(config.PlanFormatList), "dry-run output format (list, tree, json, yaml)")

	persistent := rootCmd.PersistentFlags()
	persistent.CountP("verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	persistent.Bool("no-progress", false, "disable progress reporting")
	persistent.String("progress-style", string(config.ProgressStyleBar), "progress display (bar, simple)")
	persistent.Bool("no-color", false, "disable colored output")
	persistent.StringVar(&opts.ConfigPath, "config", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// runCombine loads the configuration and runs one combine
func runCombine(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.ConfigPath,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNoSelectionMode) {
			app.Usage(cmd.OutOrStdout(), cfg.NoColor)
			return nil
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appOpts := append([]app.Option{
		app.WithStdout(cmd.OutOrStdout()),
		app.WithStderr(cmd.ErrOrStderr()),
	}, opts.AppOptions...)

	_, err = app.New(cfg, appOpts...).Run(cmd.Context())
	return err
}
