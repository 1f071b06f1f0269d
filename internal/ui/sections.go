package ui

import (
	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/filter"
)

// section is one titled block of the body. Every tab renders the sections
// whose slot is non-empty; on the all tab each section links to its own tab.
type section struct {
	Type    catalog.Type
	Title   string
	Items   []catalog.Item
	ViewAll catalog.Tab // "" when there is nothing to jump to
}

// buildSections lays out the body for tab. Images pass through the filter
// engine on every tab that shows them.
func buildSections(tab catalog.Tab, c catalog.Collections, q filter.Query) []section {
	var out []section
	add := func(t catalog.Type, title string, items []catalog.Item, dest catalog.Tab) {
		if len(items) == 0 {
			return
		}
		s := section{Type: t, Title: title, Items: items}
		if tab == catalog.TabAll {
			s.ViewAll = dest
		}
		out = append(out, s)
	}

	images := filter.Images(c.Images, q)
	if tab == catalog.TabFlightlogs {
		add(catalog.TypeImage, "Flight Logs & Contact Books", images, "")
	} else {
		add(catalog.TypeImage, "Released Photos", images, catalog.TabImages)
	}
	add(catalog.TypeAudio, "Maxwell Proffer Recordings", c.Audio, catalog.TabAudio)
	add(catalog.TypeVideo, "Surveillance Videos", c.Videos, catalog.TabVideos)
	add(catalog.TypeEmail, "Email Archives", c.Emails, catalog.TabEmails)
	add(catalog.TypeDocument, "Documents & Datasets", c.Documents, catalog.TabDocuments)
	return out
}

// row is one selectable line, remembering which section it belongs to.
type row struct {
	Item    catalog.Item
	Section int
}

func flatten(sections []section) []row {
	var rows []row
	for i, s := range sections {
		for _, it := range s.Items {
			rows = append(rows, row{Item: it, Section: i})
		}
	}
	return rows
}
