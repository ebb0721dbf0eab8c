// Command hoverview opens a page in a window and shows the hover player
// following the pointer across the page's candidate elements.
package main

import (
	"context"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hoverplayer/pkg/config"
	"hoverplayer/pkg/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:          "hoverview [page]",
		Short:        "Browse a page with the hover player attached",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, map[string]*pflag.Flag{
				config.SelectorKey: cmd.Flags().Lookup("selector"),
				config.FontPathKey: cmd.Flags().Lookup("font"),
				config.LogLevelKey: cmd.Flags().Lookup("log-level"),
			})
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(verbose)
			slog.SetDefault(logger)

			var location string
			if len(args) == 1 {
				location = args[0]
			}
			run(cmd.Context(), cfg, logger, location)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default ./hoverplayer.yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	cmd.Flags().String("log-level", "", "log level")
	cmd.Flags().StringP("selector", "s", "p", "CSS selector choosing hover candidates")
	cmd.Flags().String("font", "", "TrueType font for measuring and drawing text")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, location string) {
	a := app.New()
	w := a.NewWindow("hoverview")
	w.Resize(fyne.NewSize(float32(cfg.ViewportWidth), float32(cfg.ViewportHeight)+60))

	status := widget.NewLabel("Enter a path or URL and press Enter")
	view := newPageView(func(text string) { status.SetText(text) })

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com or ./page.html")
	urlEntry.OnSubmitted = func(loc string) {
		status.SetText("Loading " + loc + "...")
		go func() {
			s, err := session.Open(ctx, loc, cfg, session.WithLogger(logger), session.WithOnChange(view.hoverChanged))
			fyne.Do(func() {
				if err != nil {
					logger.Error("open failed", "location", loc, "error", err)
					status.SetText("Error: " + err.Error())
					return
				}
				view.setSession(s)
				w.SetTitle("hoverview - " + loc)
			})
		}()
	}

	w.SetContent(container.NewBorder(urlEntry, status, nil, nil, view))
	w.Canvas().Focus(urlEntry)
	w.SetOnClosed(func() {
		if s := view.session(); s != nil {
			s.Close()
		}
	})

	if location != "" {
		urlEntry.SetText(location)
		urlEntry.OnSubmitted(location)
	}
	w.ShowAndRun()
}
