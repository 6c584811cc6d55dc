// Package commands implements the rcprobe command tree.
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/rendercore"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the rcprobe command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	cfg := &Config{}

	root := &cobra.Command{
		Use:   "rcprobe",
		Short: "Inspect the render core's shader provider and buffer layer",
		Long: `rcprobe reports which shader extension the render core selected
and exercises GPU buffers against an in-memory or noop device.

Settings are read from rcprobe.yaml, RCPROBE_* environment variables
and flags, in increasing order of precedence.`,
		Version:      "0.1.0",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			*cfg = *loaded
			configureLogging(cmd.ErrOrStderr(), cfg.Verbose)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./rcprobe.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newCapsCommand(cfg), newBuffersCommand(cfg))
	return root
}

// configureLogging routes render core logs to w. Warnings are always shown;
// verbose adds debug output.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	rendercore.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
