// Command releasebase is the terminal browser for the released-document
// catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/abelbrown/releasebase/internal/api"
	"github.com/abelbrown/releasebase/internal/config"
	"github.com/abelbrown/releasebase/internal/coord"
	"github.com/abelbrown/releasebase/internal/logging"
	"github.com/abelbrown/releasebase/internal/merge"
	"github.com/abelbrown/releasebase/internal/normalize"
	"github.com/abelbrown/releasebase/internal/otel"
	"github.com/abelbrown/releasebase/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "releasebase:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env in the working directory, then the one in the home dir
	for _, p := range []string{".env", filepath.Join(config.Dir(), ".env")} {
		if err := config.LoadEnvFile(p); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Init(config.LogDir(), log.InfoLevel); err != nil {
		return err
	}
	defer logging.Close()

	events, err := otel.Open(cfg.EventsPath())
	if err != nil {
		logging.Warn("event log disabled", "path", cfg.EventsPath(), "err", err)
		events = otel.NewNullLogger()
	}
	defer events.Close()

	ring := otel.NewRingBuffer(cfg.Events.RingSize)
	events.SetRingBuffer(ring)

	logging.Info("starting",
		"api", cfg.API.BaseURL,
		"files", cfg.FilesBase(),
		"tab", cfg.DefaultTab(),
		"session", events.SessionID(),
	)

	client := api.New(cfg.API.BaseURL, api.WithRate(cfg.API.RequestsPerSecond, cfg.API.Burst))
	co := coord.New(client, normalize.New(cfg.FilesBase()), coord.Options{
		PeopleLimit: cfg.API.PeopleLimit,
		PerPage:     cfg.API.PerPage,
		Events:      events,
		Logger:      logging.WithPrefix("coord"),
	})

	appCfg := ui.AppConfig{
		FetchTimeout: cfg.FetchTimeout(),
		InitialTab:   cfg.DefaultTab(),
		Events:       events,
		Ring:         ring,
	}
	if cfg.UI.SeedSamples {
		appCfg.Seed = merge.Samples()
	}
	co.Wire(&appCfg)

	program := tea.NewProgram(ui.NewApp(appCfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		logging.Error("program exited", "err", err)
		return err
	}

	if n := events.Dropped(); n > 0 {
		logging.Warn("events dropped", "count", n)
	}
	logging.Info("shutdown")
	return nil
}
