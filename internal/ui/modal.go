package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/releasebase/internal/catalog"
)

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// modalRect is where View places the open modal. A click outside it closes
// the modal.
func (a App) modalRect() rect {
	box := a.renderModal()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return rect{x: max((a.width-w)/2, 0), y: max((a.height-h)/2, 0), w: w, h: h}
}

func (a App) modalWidth() int {
	return max(min(a.width-4, 96), 30)
}

func (a App) renderModal() string {
	switch {
	case a.selectedImage != nil:
		return ModalBox.Width(a.modalWidth()).Render(a.imageModal(*a.selectedImage))
	case a.selectedEmail != nil:
		return ModalBox.Width(a.modalWidth()).Render(a.emailModal(*a.selectedEmail))
	}
	return ""
}

func field(label, value string) string {
	if value == "" {
		return ""
	}
	return ModalLabel.Render(label) + " " + value
}

func joinNonEmpty(lines ...string) string {
	out := lines[:0:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func (a App) imageModal(it catalog.Item) string {
	people := strings.Join(it.AllPeople(), ", ")
	thumb := ""
	if it.ThumbnailURL != "" && it.ThumbnailURL != it.URL {
		thumb = it.ThumbnailURL
	}
	return joinNonEmpty(
		ModalTitle.Render(it.Title)+"  "+SourceBadge(it.Source),
		field("Date", it.Date),
		field("People", people),
		field("About", it.Description),
		field("Context", it.Context),
		field("Image", it.URL),
		field("Thumb", thumb),
		Muted.Render("esc or click outside to close"),
	)
}

func (a App) emailModal(it catalog.Item) string {
	subject := it.Subject
	if subject == "" {
		subject = "Untitled Email"
	}
	chips := SourceBadge(strings.ReplaceAll(it.Source, "_", " "))
	if it.EftaID != "" {
		chips += " " + Muted.Render(it.EftaID)
	}

	head := joinNonEmpty(
		chips,
		ModalTitle.Render(subject),
		field("From", it.From),
		field("To", it.To),
		field("CC", it.CC),
		field("Date", it.Date),
	)

	// leave room for the header, border and footer
	bodyLines := max(a.height-lipgloss.Height(head)-10, 3)
	body := lipgloss.NewStyle().Width(a.modalWidth() - 4).Render(it.Body)
	if lines := strings.Split(body, "\n"); len(lines) > bodyLines {
		body = strings.Join(lines[:bodyLines], "\n") + "\n" + Muted.Render("…")
	}

	return head + "\n\n" + body + "\n\n" + Muted.Render("esc or click outside to close")
}
