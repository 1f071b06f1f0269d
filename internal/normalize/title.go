package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abelbrown/releasebase/internal/catalog"
)

var (
	// filenameTitleRe matches titles that are really file names.
	filenameTitleRe = regexp.MustCompile(`(?i)^(page_\d+|Page \d+|.*\.(png|jpg|jpeg|gif|pdf)$)`)

	// genericDescRe matches ingestion placeholders like "Image from R2".
	genericDescRe = regexp.MustCompile(`(?i)^Image from (R2|DOJ|B2)$`)

	// imageFromRe catches the looser "Image from ..." family.
	imageFromRe = regexp.MustCompile(`(?i)^Image from`)
)

// maxTitleNames caps how many people or objects go into a derived title.
const maxTitleNames = 3

// TitleInput is everything DeriveTitle looks at.
type TitleInput struct {
	ID          string
	Title       string
	Description string
	Context     string
	People      []string
	Metadata    map[string]any
}

// DeriveTitle replaces file-name and placeholder titles on images with
// something readable. Titles that look deliberate are returned unchanged.
//
// Replacement order: description (unless generic), context, up to three
// people, scene type, up to three detected objects, "Image #<id>".
func DeriveTitle(in TitleInput) string {
	if in.Title == "" {
		return in.Title
	}

	desc := strings.TrimSpace(in.Description)
	generic := desc != "" && genericDescRe.MatchString(desc)
	if !generic && !filenameTitleRe.MatchString(in.Title) {
		return in.Title
	}

	if !generic && desc != "" && !imageFromRe.MatchString(desc) {
		return desc
	}
	if ctx := strings.TrimSpace(in.Context); ctx != "" {
		return ctx
	}
	if len(in.People) > 0 {
		return peopleTitle(in.People)
	}
	if scene, ok := in.Metadata["scene_type"].(string); ok && scene != "" && scene != "unknown" {
		return sceneLabel(scene)
	}
	if objects := objectLabels(in.Metadata["objects"]); len(objects) > 0 {
		if len(objects) > maxTitleNames {
			objects = objects[:maxTitleNames]
		}
		return strings.Join(objects, ", ")
	}
	return "Image #" + in.ID
}

func peopleTitle(people []string) string {
	if len(people) <= maxTitleNames {
		return strings.Join(people, ", ")
	}
	rest := len(people) - maxTitleNames
	suffix := "other"
	if rest > 1 {
		suffix = "others"
	}
	return fmt.Sprintf("%s and %d %s", strings.Join(people[:maxTitleNames], ", "), rest, suffix)
}

// sceneLabel turns "hot_tub_interior" into "Hot Tub Interior".
func sceneLabel(scene string) string {
	// Casers are stateful; build one per call.
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.ReplaceAll(scene, "_", " "))
}

// objectLabels accepts plain strings or {"label": ...}/{"name": ...} objects.
func objectLabels(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return catalog.StringList(v)
	}
	var out []string
	for _, e := range list {
		switch o := e.(type) {
		case string:
			if o != "" {
				out = append(out, o)
			}
		case map[string]any:
			if l, ok := o["label"].(string); ok && l != "" {
				out = append(out, l)
			} else if name, ok := o["name"].(string); ok && name != "" {
				out = append(out, name)
			}
		case nil:
		default:
			out = append(out, fmt.Sprint(o))
		}
	}
	return out
}
