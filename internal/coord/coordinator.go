// Package coord runs backend loads for releasebase. It hands the TUI its
// loader commands and gives the command-line tools a one-shot concurrent
// snapshot of a tab.
package coord

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/releasebase/internal/api"
	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/merge"
	"github.com/abelbrown/releasebase/internal/normalize"
	"github.com/abelbrown/releasebase/internal/otel"
	"github.com/abelbrown/releasebase/internal/stats"
	"github.com/abelbrown/releasebase/internal/ui"
)

// sideLoadTimeout bounds stats, people and manifest requests. They are not
// tied to a tab, so nothing else cancels them.
const sideLoadTimeout = 30 * time.Second

// maxConcurrentLoads limits parallel requests in Snapshot.
const maxConcurrentLoads = 4

// Backend is the subset of the API client the coordinator uses.
type Backend interface {
	Stats(ctx context.Context) (stats.Response, error)
	People(ctx context.Context, limit int) ([]catalog.PersonFacet, error)
	Documents(ctx context.Context, req api.DocumentsRequest) ([]json.RawMessage, error)
	Manifest(ctx context.Context) (merge.Manifest, error)
}

// Options tunes a Coordinator. Zero values pick the API defaults.
type Options struct {
	PeopleLimit int
	PerPage     int
	Events      *otel.Logger
	Logger      *log.Logger
}

// Coordinator owns the backend and the normalizer.
type Coordinator struct {
	backend    Backend
	normalizer normalize.Normalizer
	opts       Options
}

// New creates a Coordinator.
func New(b Backend, n normalize.Normalizer, opts Options) *Coordinator {
	if opts.PeopleLimit <= 0 {
		opts.PeopleLimit = api.DefaultPeopleLimit
	}
	if opts.PerPage <= 0 {
		opts.PerPage = api.DefaultPerPage
	}
	return &Coordinator{backend: b, normalizer: n, opts: opts}
}

// Wire installs the loaders into cfg.
func (c *Coordinator) Wire(cfg *ui.AppConfig) {
	cfg.LoadDocuments = c.LoadDocuments
	cfg.LoadPeople = c.LoadPeople
	cfg.LoadStats = c.LoadStats
	cfg.LoadManifest = c.LoadManifest
}

func (c *Coordinator) request(tab catalog.Tab) api.DocumentsRequest {
	req := api.RequestFor(tab)
	req.PerPage = c.opts.PerPage
	return req
}

// fetchTab runs one bulk fetch and normalizes the batch. Rejected records
// are logged and counted, never fatal.
func (c *Coordinator) fetchTab(ctx context.Context, tab catalog.Tab) ([]catalog.Item, int, error) {
	records, err := c.backend.Documents(ctx, c.request(tab))
	if err != nil {
		return nil, 0, err
	}
	items, errs := c.normalizer.NormalizeBatch(records)
	for _, e := range errs {
		if c.opts.Logger != nil {
			c.opts.Logger.Warn("skipping record", "tab", tab, "err", e)
		}
		c.opts.Events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindNormalizeSkip, Comp: "coord", Tab: string(tab), Err: e.Error()})
	}
	return items, len(errs), nil
}

// LoadDocuments fetches tab under ctx and replies with ui.DocumentsLoaded.
// ctx belongs to the App, which cancels it when the tab changes.
func (c *Coordinator) LoadDocuments(ctx context.Context, tab catalog.Tab, requestID string) tea.Cmd {
	return func() tea.Msg {
		items, skipped, err := c.fetchTab(ctx, tab)
		return ui.DocumentsLoaded{RequestID: requestID, Tab: tab, Items: items, Skipped: skipped, Err: err}
	}
}

// LoadPeople replies with ui.PeopleLoaded.
func (c *Coordinator) LoadPeople() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sideLoadTimeout)
		defer cancel()
		people, err := c.backend.People(ctx, c.opts.PeopleLimit)
		return ui.PeopleLoaded{People: people, Err: err}
	}
}

// LoadStats replies with ui.StatsLoaded.
func (c *Coordinator) LoadStats() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sideLoadTimeout)
		defer cancel()
		resp, err := c.backend.Stats(ctx)
		if err != nil {
			return ui.StatsLoaded{Err: err}
		}
		return ui.StatsLoaded{Stats: stats.FromResponse(resp)}
	}
}

// LoadManifest replies with ui.ManifestLoaded.
func (c *Coordinator) LoadManifest() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sideLoadTimeout)
		defer cancel()
		m, err := c.backend.Manifest(ctx)
		return ui.ManifestLoaded{Manifest: m, Err: err}
	}
}

// Snapshot is everything the browser would show for one tab.
type Snapshot struct {
	Tab         catalog.Tab           `json:"tab" yaml:"tab"`
	Stats       catalog.StatsSummary  `json:"stats" yaml:"stats"`
	People      []catalog.PersonFacet `json:"people,omitempty" yaml:"people,omitempty"`
	Collections catalog.Collections   `json:"collections" yaml:"collections"`
	Skipped     int                   `json:"skipped" yaml:"skipped"`
	Warnings    []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Snapshot loads tab together with its side loads in parallel. Only the
// document fetch can fail the snapshot; side-load failures degrade the same
// way they do in the browser and are reported in Warnings.
func (c *Coordinator) Snapshot(ctx context.Context, tab catalog.Tab) (Snapshot, error) {
	snap := Snapshot{Tab: tab, Stats: stats.Zero()}

	var (
		mu       sync.Mutex
		manifest merge.Manifest
		items    []catalog.Item
	)
	warn := func(what string, err error) {
		mu.Lock()
		defer mu.Unlock()
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("%s: %v", what, err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	g.Go(func() error {
		var err error
		var skipped int
		items, skipped, err = c.fetchTab(gctx, tab)
		if err != nil {
			return fmt.Errorf("coord: load %s: %w", tab, err)
		}
		snap.Skipped = skipped
		return nil
	})
	g.Go(func() error {
		resp, err := c.backend.Stats(gctx)
		if err != nil {
			warn("stats", err)
			return nil
		}
		snap.Stats = stats.FromResponse(resp)
		return nil
	})
	g.Go(func() error {
		m, err := c.backend.Manifest(gctx)
		if err != nil {
			warn("manifest", err)
			return nil
		}
		manifest = m
		return nil
	})
	if tab.PeopleEligible() {
		g.Go(func() error {
			people, err := c.backend.People(gctx, c.opts.PeopleLimit)
			if err != nil {
				warn("people", err)
				snap.People = []catalog.PersonFacet{}
				return nil
			}
			snap.People = people
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.Collections = merge.PrependCurated(merge.Group(items), manifest)
	return snap, nil
}
