package summary

import (
	"bytes"
	"encoding/json"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	models "lawlow/internal/domain/models/law"
)

var (
	// entityPattern drops the entities the upstream HTML uses for layout.
	entityPattern = regexp.MustCompile(`&nbsp;|&gt;|&amp;?`)

	// jsonPunct drops the JSON punctuation of a serialized statute.
	jsonPunct = strings.NewReplacer(`"`, "", "[", "", "]", "", "{", "", "}", "")

	lineBreaks = strings.NewReplacer("\n", "", "\r", "", "\u00a0", "")

	stripPolicy = bluemonday.StrictPolicy()
)

// StripMarkup removes tags, layout entities and line breaks from upstream HTML.
func StripMarkup(s string) string {
	s = entityPattern.ReplaceAllString(s, "")
	// StrictPolicy escapes what it keeps, so undo that after the tags are gone.
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return lineBreaks.Replace(s)
}

// LawContent renders a detail as the plain text sent to the model.
// Precedents contribute their ruling text; statutes are serialized whole.
func LawContent(detail models.Detail) (string, error) {
	switch d := detail.(type) {
	case *models.PrecedentDetail:
		return StripMarkup(d.Content), nil
	case *models.StatuteDetail:
		view := *d
		view.IsBookmarked = nil

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(view); err != nil {
			return "", err
		}
		return jsonPunct.Replace(StripMarkup(buf.String())), nil
	default:
		return "", nil
	}
}
