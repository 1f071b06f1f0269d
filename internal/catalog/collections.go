package catalog

// Collections is the per-type item snapshot the UI renders from.
// Treat it as immutable: With returns a copy, slices are never patched in place.
type Collections struct {
	Videos    []Item `json:"videos" yaml:"videos"`
	Audio     []Item `json:"audio" yaml:"audio"`
	Images    []Item `json:"images" yaml:"images"`
	Documents []Item `json:"documents" yaml:"documents"`
	Emails    []Item `json:"emails" yaml:"emails"`
}

// Slot returns the sequence held for t.
func (c Collections) Slot(t Type) []Item {
	switch t {
	case TypeVideo:
		return c.Videos
	case TypeAudio:
		return c.Audio
	case TypeImage:
		return c.Images
	case TypeEmail:
		return c.Emails
	default:
		return c.Documents
	}
}

// With returns a copy of c whose slot for t is items.
func (c Collections) With(t Type, items []Item) Collections {
	switch t {
	case TypeVideo:
		c.Videos = items
	case TypeAudio:
		c.Audio = items
	case TypeImage:
		c.Images = items
	case TypeEmail:
		c.Emails = items
	default:
		c.Documents = items
	}
	return c
}

// Len is the total number of held items.
func (c Collections) Len() int {
	return len(c.Videos) + len(c.Audio) + len(c.Images) + len(c.Documents) + len(c.Emails)
}

// Find looks up an item by type and id.
func (c Collections) Find(t Type, id string) (Item, bool) {
	for _, it := range c.Slot(t) {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
