package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/coord"
	"github.com/abelbrown/releasebase/internal/filter"
	"github.com/abelbrown/releasebase/internal/ui"
)

// listOrder is the body order of the browser.
var listOrder = []catalog.Type{
	catalog.TypeImage,
	catalog.TypeAudio,
	catalog.TypeVideo,
	catalog.TypeEmail,
	catalog.TypeDocument,
}

type listOptions struct {
	tab     string
	query   string
	person  string
	sources []string
	limit   int
}

func newListCmd(e *env) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one tab the way the browser shows it",
		Long: `list fetches a tab together with stats, people and the curated manifest,
then applies the browser's image filter (person facet, then text query, then
people-first ordering). --source and --limit narrow every section.`,
		Example: `  rb list --tab images --person "Jane Doe"
  rb list --tab all --source DOJ --limit 5 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := catalog.ParseTab(opts.tab)
			if err != nil {
				return err
			}
			if opts.person != "" && !tab.PeopleEligible() {
				return fmt.Errorf("--person only applies to the images and flightlogs tabs")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.FetchTimeout())
			defer cancel()

			snap, err := e.coord.Snapshot(ctx, tab)
			if err != nil {
				return err
			}
			snap = applyListOptions(snap, opts)

			w := cmd.OutOrStdout()
			if ok, err := encode(w, e.output, snap); ok {
				return err
			}
			printSnapshot(w, snap)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.tab, "tab", "t", string(catalog.TabAll), "Tab: all, videos, audio, images, flightlogs, emails, documents")
	f.StringVarP(&opts.query, "query", "q", "", "Text query over image titles, descriptions and people")
	f.StringVarP(&opts.person, "person", "p", "", "Person facet (images and flightlogs only)")
	f.StringSliceVar(&opts.sources, "source", nil, "Keep only these sources (repeatable)")
	f.IntVarP(&opts.limit, "limit", "n", 0, "Maximum items per section")
	return cmd
}

func applyListOptions(snap coord.Snapshot, opts listOptions) coord.Snapshot {
	q := filter.Query{Text: opts.query}
	if opts.person != "" {
		q.Person = &catalog.PersonFacet{Name: opts.person}
		for _, p := range snap.People {
			if p.Name == opts.person {
				q.Person = &p
				break
			}
		}
	}

	c := snap.Collections.With(catalog.TypeImage, filter.Images(snap.Collections.Images, q))
	for _, t := range listOrder {
		items := c.Slot(t)
		if len(opts.sources) > 0 {
			items = filter.BySource(items, opts.sources)
		}
		c = c.With(t, filter.Limit(items, opts.limit))
	}
	snap.Collections = c
	return snap
}

func printSnapshot(w io.Writer, snap coord.Snapshot) {
	printWarnings(w, snap.Warnings)

	shown := false
	for _, t := range listOrder {
		items := snap.Collections.Slot(t)
		if len(items) == 0 {
			continue
		}
		shown = true
		printTitle(w, fmt.Sprintf("%s (%d)", sectionTitle(snap.Tab, t), len(items)))
		tbl := newTable("ID", "TITLE", "SOURCE", "DETAIL")
		for _, it := range items {
			tbl.Row(truncate(it.ID, 18), truncate(displayTitle(it), 48), ui.SourceBadge(it.Source), truncate(detail(it), 40))
		}
		fmt.Fprintln(w, tbl.Render())
	}
	if !shown {
		fmt.Fprintln(w, mutedStyle.Render("Nothing to show."))
	}
	if snap.Skipped > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d malformed records skipped", snap.Skipped)))
	}
}

func sectionTitle(tab catalog.Tab, t catalog.Type) string {
	switch t {
	case catalog.TypeImage:
		if tab == catalog.TabFlightlogs {
			return "Flight Logs & Contact Books"
		}
		return "Released Photos"
	case catalog.TypeAudio:
		return "Maxwell Proffer Recordings"
	case catalog.TypeVideo:
		return "Surveillance Videos"
	case catalog.TypeEmail:
		return "Email Archives"
	default:
		return "Documents & Datasets"
	}
}

func displayTitle(it catalog.Item) string {
	switch {
	case it.Type == catalog.TypeEmail && it.Subject != "":
		return it.Subject
	case it.Title != "":
		return it.Title
	}
	return "(untitled)"
}

func detail(it catalog.Item) string {
	switch it.Type {
	case catalog.TypeVideo:
		return it.Duration
	case catalog.TypeAudio:
		if it.Redacted != nil && *it.Redacted {
			return "REDACTED"
		}
		return it.Date
	case catalog.TypeImage:
		if len(it.People) > 0 {
			return strings.Join(it.People, ", ")
		}
		return ""
	case catalog.TypeEmail:
		return it.From
	}
	if it.Count != "" {
		return it.Format + " " + it.Count
	}
	return it.Format
}
