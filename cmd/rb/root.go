package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/api"
	"github.com/abelbrown/releasebase/internal/config"
	"github.com/abelbrown/releasebase/internal/coord"
	"github.com/abelbrown/releasebase/internal/logging"
	"github.com/abelbrown/releasebase/internal/normalize"
)

// env is what every subcommand needs, filled in by the root pre-run.
type env struct {
	cfg        *config.Config
	client     *api.Client
	normalizer normalize.Normalizer
	coord      *coord.Coordinator
	output     string
}

func newRootCmd() *cobra.Command {
	var (
		e       = &env{}
		apiURL  string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "rb",
		Short: "Query and debug a releasebase backend from the shell",
		Long: `rb talks to the same backend as the releasebase browser and applies the
same normalization and filtering, so its output matches what the browser
shows. Settings come from ~/.releasebase/config.json, RELEASEBASE_* variables
and .env files, in that order of increasing priority; flags win over all.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range []string{".env", filepath.Join(config.Dir(), ".env")} {
				if err := config.LoadEnvFile(p); err != nil {
					return err
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.API.BaseURL = apiURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if timeout > 0 {
				cfg.API.FetchTimeoutSeconds = max(1, int(timeout/time.Second))
			}

			level := log.WarnLevel
			if verbose {
				level = log.DebugLevel
			}
			logging.InitWriter(os.Stderr, level)

			switch e.output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", e.output)
			}

			e.cfg = cfg
			e.client = api.New(cfg.API.BaseURL, api.WithRate(cfg.API.RequestsPerSecond, cfg.API.Burst))
			e.normalizer = normalize.New(cfg.FilesBase())
			e.coord = coord.New(e.client, e.normalizer, coord.Options{
				PeopleLimit: cfg.API.PeopleLimit,
				PerPage:     cfg.API.PerPage,
				Logger:      logging.WithPrefix("coord"),
			})
			logging.Debug("config", "api", cfg.API.BaseURL, "files", cfg.FilesBase(), "timeout", cfg.FetchTimeout())
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&apiURL, "api", "", "Backend base URL (overrides config and "+config.EnvAPIURL+")")
	pf.DurationVar(&timeout, "timeout", 0, "Bulk fetch timeout (default from config)")
	pf.StringVarP(&e.output, "output", "o", "text", "Output format: text, json or yaml")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	cmd.AddCommand(
		newStatsCmd(e),
		newPeopleCmd(e),
		newListCmd(e),
		newShowCmd(e),
		newManifestCmd(e),
		newEventsCmd(e),
		newFixtureCmd(),
	)
	return cmd
}
