package summary

import (
	"regexp"
	"strings"
)

var (
	titleMarker   = regexp.MustCompile(`(?i)(제목|title)\s*:`)
	keywordMarker = regexp.MustCompile(`(?i)(키워드|keywords?)\s*:`)
)

// ParseTitleKeywords reads "제목: ..." and "키워드: a, b" lines (or their
// English forms) from a model answer. ok is false unless both a title and
// at least one keyword were found.
func ParseTitleKeywords(text string) (title string, keywords []string, ok bool) {
	t := titleMarker.FindStringIndex(text)
	k := keywordMarker.FindStringIndex(text)
	if t == nil || k == nil || k[0] < t[1] {
		return "", nil, false
	}

	title = cleanLine(text[t[1]:k[0]])
	for _, kw := range strings.FieldsFunc(keywordBlock(text[k[1]:]), isKeywordSep) {
		if kw = cleanLine(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	if title == "" || len(keywords) == 0 {
		return "", nil, false
	}
	return title, keywords, true
}

// keywordBlock returns the text after the keyword marker up to the first
// blank line, so lists that start on the next line or wrap are kept whole.
func keywordBlock(s string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimLeft(s, " \t\r\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func isKeywordSep(r rune) bool {
	return r == ',' || r == '\n' || r == '\r'
}

func cleanLine(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'*-#`))
}
