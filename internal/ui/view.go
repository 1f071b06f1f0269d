package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/stats"
)

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showDebug {
		return debugOverlay(a.cfg.Ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}
	if a.modalOpen() {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.renderModal())
	}

	top := []string{
		a.renderHeader(),
		a.renderBanner(),
		a.renderTabBar(),
	}
	if f := a.renderFacetLine(); f != "" {
		top = append(top, f)
	}
	head := strings.Join(top, "\n")
	foot := a.renderStatusBar()

	bodyHeight := a.height - lipgloss.Height(head) - lipgloss.Height(foot)
	var body string
	if a.mode == modePeople {
		body = a.renderPeopleDropdown(bodyHeight)
	} else {
		body = a.renderBody(bodyHeight)
	}
	body = lipgloss.NewStyle().Height(max(bodyHeight, 0)).MaxHeight(max(bodyHeight, 0)).Render(body)

	return head + "\n" + body + "\n" + foot
}

func (a App) renderHeader() string {
	left := HeaderTitle.Render("releasebase") + "  " + HeaderSub.Render("DOJ release · searchable archive")
	search := SearchBar.Render(a.search.View())
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(search)
	if gap < 1 {
		return left + "\n" + search
	}
	return left + strings.Repeat(" ", gap) + search
}

func (a App) renderBanner() string {
	var parts []string
	for _, b := range stats.Banners(a.summary) {
		parts = append(parts, BannerLabel.Render(b.Label+" ")+BannerValue.Render(formatCount(b.Value)))
	}
	line := strings.Join(parts, BannerLabel.Render("   "))
	return BannerBox.Width(max(a.width, 1)).Render(line)
}

func (a App) renderTabBar() string {
	var parts []string
	for _, t := range catalog.Tabs() {
		label := t.Label() + " " + TabBadge.Render(formatCount(stats.Badge(a.summary, t)))
		if t == a.tab {
			parts = append(parts, TabActive.Render(t.Label()+" "+formatCount(stats.Badge(a.summary, t))))
			continue
		}
		parts = append(parts, TabInactive.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderFacetLine() string {
	if !a.tab.PeopleEligible() || len(a.people) == 0 {
		return ""
	}
	if a.person == nil {
		return Muted.Render(fmt.Sprintf(" People: All people (%s)  p: choose", formatCount(stats.Badge(a.summary, a.tab))))
	}
	return " People: " + FacetChip.Render(fmt.Sprintf("%s (%d)", a.person.Name, a.person.DocCount)) + Muted.Render("  esc: clear")
}

func (a App) renderBody(height int) string {
	sections := a.sections()
	if len(sections) == 0 {
		switch {
		case a.loading:
			return "\n  " + a.spinner.View() + " Loading " + a.tab.Label() + "..."
		case a.query().Active():
			return Muted.Render("\n  No images match the current filter.")
		default:
			return Muted.Render("\n  Nothing to show.")
		}
	}

	var lines []string
	cursorLine := 0
	n := 0
	for _, s := range sections {
		lines = append(lines, "", a.renderSectionHeader(s))
		for _, it := range s.Items {
			if n == a.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, renderItemLine(it, n == a.cursor, a.width))
			n++
		}
	}

	offset := 0
	if height > 0 && cursorLine >= height {
		offset = cursorLine - height + 1
	}
	end := min(len(lines), offset+max(height, 0))
	return strings.Join(lines[offset:end], "\n")
}

func (a App) renderSectionHeader(s section) string {
	title := s.Title
	switch {
	case a.tab == catalog.TabFlightlogs:
		count := a.summary.Flightlogs
		if count == 0 {
			count = len(s.Items)
		}
		title += " " + TabBadge.Render(formatCount(count))
	case s.ViewAll != "":
		title += " " + TabBadge.Render(formatCount(stats.Badge(a.summary, s.ViewAll)))
	}
	header := SectionHeader.Render(title)
	if s.ViewAll != "" {
		header += ViewAllHint.Render("  v: view all ›")
	}
	return header
}

func renderItemLine(it catalog.Item, selected bool, width int) string {
	icon, detail := describe(it)
	title := it.Title
	if it.Type == catalog.TypeEmail && it.Subject != "" {
		title = it.Subject
	}
	if title == "" {
		title = "Untitled"
	}

	room := width - 4
	main := truncateRunes(icon+" "+title, max(room/2, 12))

	if selected {
		line := main
		if detail != "" {
			line += "  " + detail
		}
		return SelectedItem.Render(truncateRunes(line, max(room, 12)))
	}

	line := NormalItem.Render(main)
	if detail != "" {
		line += Muted.Render(truncateRunes(detail, max(room-lipgloss.Width(line), 0)))
	}
	if badge := SourceBadge(it.Source); badge != "" && lipgloss.Width(line)+lipgloss.Width(badge)+1 <= width {
		line += " " + badge
	}
	return line
}

// describe returns the row icon and the type-specific detail text.
func describe(it catalog.Item) (icon, detail string) {
	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	switch it.Type {
	case catalog.TypeImage:
		icon = "▣"
		if n := len(it.AllPeople()); n > 0 {
			add(fmt.Sprintf("%d %s", n, pluralize(n, "person", "people")))
		}
		add(it.Date)
	case catalog.TypeVideo:
		icon = "▶"
		add(it.Duration)
		add(it.Location)
		add(it.Date)
	case catalog.TypeAudio:
		icon = "♪"
		add(it.Date)
		add(it.Duration)
		if it.Redacted != nil && *it.Redacted {
			add("REDACTED")
		}
	case catalog.TypeEmail:
		icon = "✉"
		add(it.From)
		add(it.Date)
	default:
		icon = "▤"
		add(strings.ToUpper(it.Format))
		if it.Count != "" {
			add(it.Count + " files")
		}
		add(it.Subtype)
		add(it.Date)
	}
	return icon, strings.Join(parts, " · ")
}

func (a App) renderPeopleDropdown(height int) string {
	lines := []string{"All people"}
	for _, p := range a.people {
		lines = append(lines, fmt.Sprintf("%s (%d)", p.Name, p.DocCount))
	}

	// keep the cursor inside the visible window
	visible := max(height-2, 1)
	offset := 0
	if a.peopleCursor >= visible {
		offset = a.peopleCursor - visible + 1
	}
	end := min(len(lines), offset+visible)

	var out []string
	for i := offset; i < end; i++ {
		l := lines[i]
		if i == a.peopleCursor {
			l = DropdownSelected.Render("› " + l)
		} else {
			l = "  " + l
		}
		out = append(out, l)
	}
	return DropdownBox.Render(strings.Join(out, "\n"))
}

func (a App) renderStatusBar() string {
	var left string
	switch {
	case a.mode == modeSearch:
		left = StatusBarKey.Render("enter/esc") + StatusBarText.Render(" done")
	case a.loading:
		left = a.spinner.View() + StatusBarText.Render(" Loading "+a.tab.Label()+"...")
	case a.status != "":
		left = ErrorStyle.Render(a.status)
	default:
		rows := len(a.rows())
		left = StatusBarText.Render(fmt.Sprintf("%d items", rows))
		if rows > 0 {
			left = StatusBarText.Render(fmt.Sprintf("%d/%d", a.cursor+1, rows))
		}
	}

	right := a.help.View(keys)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 || a.showHelp {
		return StatusBar.Width(max(a.width, 1)).Render(left) + "\n" + right
	}
	return StatusBar.Width(max(a.width, 1)).Render(left + strings.Repeat(" ", gap) + right)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	if n < 0 {
		return "-" + formatCount(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// truncateRunes shortens s to at most n runes, marking the cut with an ellipsis.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
