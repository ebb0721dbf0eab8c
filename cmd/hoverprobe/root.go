package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hoverplayer/pkg/config"
)

const (
	configFlagName   = "config"
	logFileFlagName  = "log-file"
	logLevelFlagName = "log-level"
	verboseFlagName  = "verbose"
	widthFlagName    = "width"
	heightFlagName   = "height"
	selectorFlagName = "selector"
	fontFlagName     = "font"
)

const rootLongDescription = `hoverprobe loads a page, picks hover candidates and replays pointer
input against them, reporting which element the hover player would attach
to and where.

Settings come from ./hoverplayer.yaml, HOVERPLAYER_* environment variables
and flags, in increasing order of precedence.`

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "hoverprobe",
		Short:        "Probe hover player placement on a page",
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, configFlagName, "c", "", "config file (default ./hoverplayer.yaml)")
	flags.BoolVarP(&opts.verbose, verboseFlagName, "v", false, "log at debug level")
	flags.String(logFileFlagName, "", "log file path")
	flags.String(logLevelFlagName, "", "log level (debug, info, warn, error or a number)")
	flags.Float64(widthFlagName, 800, "viewport width in pixels")
	flags.Float64(heightFlagName, 600, "viewport height in pixels")
	flags.String(fontFlagName, "", "TrueType font for measuring and drawing text")

	cmd.AddCommand(newProbeCmd(opts), newVersionCmd())
	return cmd
}

// loadConfig merges file, environment and the command's flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, *slog.Logger, error) {
	lookup := cmd.Flags().Lookup
	bindings := map[string]*pflag.Flag{
		config.LogFilenameKey:    lookup(logFileFlagName),
		config.LogLevelKey:       lookup(logLevelFlagName),
		config.ViewportWidthKey:  lookup(widthFlagName),
		config.ViewportHeightKey: lookup(heightFlagName),
		config.FontPathKey:       lookup(fontFlagName),
	}
	if f := lookup(selectorFlagName); f != nil {
		bindings[config.SelectorKey] = f
	}
	cfg, err := config.Load(opts.configFile, bindings)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Log.NewLogger(opts.verbose)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
