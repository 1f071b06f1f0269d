// Command rb is the releasebase command-line companion: it queries the
// backend without the TUI, inspects the event log and serves a local fixture
// backend.
//
// Usage:
//
//	rb stats                  Archive counters and tab badges
//	rb people                 Person facets for the image tabs
//	rb list --tab images      One tab, filtered the way the browser filters it
//	rb show <id>              One document with full detail
//	rb manifest               Curated assets
//	rb events                 JSONL event log viewer
//	rb fixture                Serve the demo backend on localhost
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

const version = "0.3.0"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
