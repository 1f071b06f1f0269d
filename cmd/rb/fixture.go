package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/fixture"
)

func newFixtureCmd() *cobra.Command {
	var (
		addr   string
		data   string
		files  string
		delay  time.Duration
		faults []string
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Serve a demo backend from an embedded or local catalog",
		Long: `fixture serves /api/stats, /api/people, /api/documents,
/api/documents/{id}, /curated/manifest.json and optionally /files/ from a
small catalog, so the
browser can run without the real backend. --data accepts the same layout in
JSON or YAML.`,
		Example: `  rb fixture --addr :8000
  rb fixture --delay 20s                    # exercise the fetch timeout
  rb fixture --fault /api/people=500        # exercise degraded side loads`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "fixture"})

			opts := []fixture.Option{fixture.WithDelay(delay), fixture.WithLogger(logger)}
			if files != "" {
				opts = append(opts, fixture.WithFiles(files))
			}
			if data != "" {
				ds, err := fixture.LoadDataset(data)
				if err != nil {
					return err
				}
				opts = append(opts, fixture.WithDataset(ds))
			}
			for _, spec := range faults {
				path, code, err := parseFault(spec)
				if err != nil {
					return err
				}
				opts = append(opts, fixture.WithFault(path, code))
			}

			srv, err := fixture.New(opts...)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", addr, "documents", srv.Dataset().Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				logger.Info("stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "localhost:8000", "Listen address")
	f.StringVar(&data, "data", "", "Catalog file (.json, .yaml or .yml)")
	f.StringVar(&files, "files", "", "Directory served under /files/")
	f.DurationVar(&delay, "delay", 0, "Hold every response for this long")
	f.StringArrayVar(&faults, "fault", nil, "Answer PATH with STATUS, as PATH=STATUS (repeatable)")
	return cmd
}

func parseFault(spec string) (string, int, error) {
	path, code, ok := strings.Cut(spec, "=")
	if !ok || !strings.HasPrefix(path, "/") {
		return "", 0, fmt.Errorf("bad --fault %q, want /path=status", spec)
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 100 || n > 599 {
		return "", 0, fmt.Errorf("bad --fault status %q", code)
	}
	return path, n, nil
}
