package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/releasebase/internal/otel"
)

// debugPanelChrome is the lines DebugPanel spends on border and padding.
const debugPanelChrome = 4

// debugOverlay renders load counters and recent events from the ring.
// Returns "" when ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Load Stats"))
	lines = append(lines, fmt.Sprintf("  Fetches:    %d started, %d complete, %d errors, %d timeouts",
		stats[otel.KindFetchStart], stats[otel.KindFetchComplete], stats[otel.KindFetchError], stats[otel.KindFetchTimeout]))
	lines = append(lines, fmt.Sprintf("  Discarded:  %d stale, %d cancelled",
		stats[otel.KindFetchStale], stats[otel.KindFetchCancel]))
	lines = append(lines, fmt.Sprintf("  Side loads: people %d/%d, stats %d/%d, manifest %d/%d (ok/err)",
		stats[otel.KindPeopleLoaded], stats[otel.KindPeopleError],
		stats[otel.KindStatsLoaded], stats[otel.KindStatsError],
		stats[otel.KindManifestLoaded], stats[otel.KindManifestError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Tab != "" {
			line += "  " + e.Tab
		}
		if d := e.Duration(); d > 0 {
			line += "  " + formatAge(d)
		}
		if e.Count > 0 {
			line += fmt.Sprintf("  n=%d", e.Count)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		if e.RequestID != "" {
			line += "  rid:" + truncateRunes(e.RequestID, 8)
		}
		lines = append(lines, line)
	}

	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := min(96, width-4)
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration compactly. Negative durations clamp to 0ms.
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(max(width, 1)).Render("  [DEBUG]  " + keys)
}
