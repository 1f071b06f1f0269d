package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/otel"
)

type eventFilter struct {
	kind  string
	level string
	comp  string
	rid   string
	tab   string
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level otel.Level) int {
	switch level {
	case otel.LevelInfo:
		return 1
	case otel.LevelWarn:
		return 2
	case otel.LevelError:
		return 3
	default:
		return 0
	}
}

func (f eventFilter) match(ev otel.Event) bool {
	if f.kind != "" && !strings.HasPrefix(string(ev.Kind), f.kind) {
		return false
	}
	if f.level != "" && levelRank(ev.Level) < levelRank(otel.Level(f.level)) {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.rid != "" && !strings.HasPrefix(ev.RequestID, f.rid) {
		return false
	}
	if f.tab != "" && ev.Tab != f.tab {
		return false
	}
	return true
}

func formatEvent(ev otel.Event) string {
	lvl := strings.ToUpper(string(ev.Level))
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-5s] %-18s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Tab != "" {
		parts = append(parts, "tab="+ev.Tab)
	}
	if ev.Msg != "" {
		parts = append(parts, ev.Msg)
	}
	if d := ev.Duration(); d > 0 {
		parts = append(parts, fmt.Sprintf("(%s)", d.Round(time.Millisecond)))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", ev.Query))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	if ev.RequestID != "" {
		parts = append(parts, "rid="+truncate(ev.RequestID, 8))
	}
	return strings.Join(parts, " ")
}

// lastN keeps the final n events; n <= 0 keeps all.
func lastN(events []otel.Event, n int) []otel.Event {
	if n <= 0 || len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}

func newEventsCmd(e *env) *cobra.Command {
	var (
		f       eventFilter
		tail    int
		follow  bool
		rawJSON bool
		path    string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the browser's JSONL event log",
		Example: `  rb events --kind fetch --level warn
  rb events -f --tab images`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = e.cfg.EventsPath()
			}
			file, err := os.Open(path)
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no event log at %s; run releasebase first", path)
			}
			if err != nil {
				return err
			}
			defer file.Close()

			w := cmd.OutOrStdout()
			emit := func(ev otel.Event) error {
				if rawJSON {
					b, err := json.Marshal(ev)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(w, string(b))
					return err
				}
				_, err := fmt.Fprintln(w, formatEvent(ev))
				return err
			}

			events, err := otel.ReadEvents(file)
			if err != nil {
				return err
			}
			var matched []otel.Event
			for _, ev := range events {
				if f.match(ev) {
					matched = append(matched, ev)
				}
			}
			for _, ev := range lastN(matched, tail) {
				if err := emit(ev); err != nil {
					return err
				}
			}

			if !follow {
				return nil
			}
			return followEvents(cmd.Context(), file, f, emit)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&tail, "tail", "n", 50, "Number of recent events to show (0 for all)")
	fl.BoolVarP(&follow, "follow", "f", false, "Keep printing new events")
	fl.StringVar(&f.kind, "kind", "", "Event kind prefix (e.g. fetch, ui.facet)")
	fl.StringVar(&f.level, "level", "", "Minimum level: debug, info, warn, error")
	fl.StringVar(&f.comp, "comp", "", "Component name")
	fl.StringVar(&f.rid, "rid", "", "Request id prefix")
	fl.StringVar(&f.tab, "tab", "", "Tab name")
	fl.BoolVar(&rawJSON, "json", false, "Print JSON lines")
	fl.StringVar(&path, "file", "", "Event log path (default from config)")
	return cmd
}

// followEvents polls r for appended lines until ctx is done.
func followEvents(ctx context.Context, r io.Reader, f eventFilter, emit func(otel.Event) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return err
		}
		var ev otel.Event
		if json.Unmarshal(line, &ev) != nil || !f.match(ev) {
			continue
		}
		if err := emit(ev); err != nil {
			return err
		}
	}
}
