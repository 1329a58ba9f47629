package listing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const snippetMaxRunes = 200

// Snippet reduces the vacancy's html description to a short plain-text
// preview for status surfaces. It is never written to the report.
func Snippet(htmlDesc string) string {
	if strings.TrimSpace(htmlDesc) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDesc))
	if err != nil {
		return ""
	}
	return TruncateRunes(cleanText(doc.Text()), snippetMaxRunes)
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
