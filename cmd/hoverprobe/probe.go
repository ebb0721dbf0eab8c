package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"hoverplayer/pkg/html"
	"hoverplayer/pkg/session"
)

func newProbeCmd(opts *rootOptions) *cobra.Command {
	var movesFile, pngFile string
	cmd := &cobra.Command{
		Use:   "probe <page>",
		Short: "Replay pointer input against a page's hover candidates",
		Long: `Load a page from a file path, file:// URL or http(s) URL, select hover
candidates, replay a YAML pointer script and print the hovered element and
player placement after every step.

A pointer script is a list of steps:

  - move: [120, 48]     # pointer position, viewport-relative
  - scroll: [0, 300]    # absolute scroll offset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			var steps []session.Step
			if movesFile != "" {
				steps, err = readSteps(movesFile)
				if err != nil {
					return err
				}
			}

			s, err := session.Open(cmd.Context(), args[0], cfg, session.WithLogger(logger))
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d candidates\n", len(s.Coordinator.Candidates()))
			if len(steps) > 0 {
				writeResults(out, s.Replay(steps))
			}

			if pngFile != "" {
				s.Frame()
				if err := s.Renderer.SavePNG(pngFile); err != nil {
					return fmt.Errorf("saving %s: %w", pngFile, err)
				}
				fmt.Fprintf(out, "frame written to %s\n", pngFile)
			}
			return nil
		},
	}

	cmd.Flags().StringP(selectorFlagName, "s", "p", "CSS selector choosing hover candidates")
	cmd.Flags().StringVarP(&movesFile, "moves", "m", "", "YAML pointer script to replay")
	cmd.Flags().StringVar(&pngFile, "png", "", "write the final frame, with the player, to this PNG file")
	return cmd
}

func readSteps(path string) ([]session.Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return session.ParseScript(f)
}

func writeResults(w io.Writer, results []session.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Action", "X", "Y", "Hovered", "Top", "Left", "Line height"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)

	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Step), r.Action, formatFloat(r.X), formatFloat(r.Y),
			"-", "", "", "",
		}
		if r.Element != nil {
			row[4] = describe(r.Element)
			row[5] = formatFloat(r.Top)
			row[6] = formatFloat(r.Left)
			row[7] = strconv.Itoa(r.LineHeight)
		}
		table.Append(row)
	}
	table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// describe names an element the way a selector would: tag#id, else
// tag.firstclass, else the bare tag.
func describe(n *html.Node) string {
	if id := n.ID(); id != "" {
		return n.TagName + "#" + id
	}
	if cls, ok := n.GetAttribute("class"); ok {
		if fields := strings.Fields(cls); len(fields) > 0 {
			return n.TagName + "." + fields[0]
		}
	}
	return n.TagName
}
