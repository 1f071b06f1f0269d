package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/stats"
)

type statsView struct {
	Summary catalog.StatsSummary `json:"summary" yaml:"summary"`
	Raw     stats.Response       `json:"raw" yaml:"raw"`
}

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Archive counters, banners and tab badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.FetchTimeout())
			defer cancel()

			resp, err := e.client.Stats(ctx)
			if err != nil {
				return err
			}
			view := statsView{Summary: stats.FromResponse(resp), Raw: resp}

			w := cmd.OutOrStdout()
			if ok, err := encode(w, e.output, view); ok {
				return err
			}

			printTitle(w, "Archive")
			banners := newTable("COUNTER", "VALUE")
			for _, b := range stats.Banners(view.Summary) {
				banners.Row(b.Label, formatCount(b.Value))
			}
			fmt.Fprintln(w, banners.Render())

			printTitle(w, "Tabs")
			tabs := newTable("TAB", "BADGE")
			for _, t := range catalog.Tabs() {
				tabs.Row(t.Label(), formatCount(stats.Badge(view.Summary, t)))
			}
			fmt.Fprintln(w, tabs.Render())

			if len(resp.BySource) > 0 {
				printTitle(w, "Sources")
				sources := newTable("SOURCE", "DOCUMENTS")
				for _, name := range sortedKeys(resp.BySource) {
					sources.Row(name, formatCount(resp.BySource[name]))
				}
				fmt.Fprintln(w, sources.Render())
			}
			return nil
		},
	}
}
