package resource

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxBodySummary = 512

// bodySummary condenses a response body for failure logs. HTML error pages
// (typically from a proxy in front of the API) are reduced to their title.
func bodySummary(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if looksLikeHTML(s) {
		if title := htmlTitle(body); title != "" {
			return "html: " + title
		}
	}
	if len(s) > maxBodySummary {
		return s[:maxBodySummary] + "..."
	}
	return s
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(s[:min(len(s), 256)])
	return strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<html") ||
		strings.Contains(head, "<title")
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1"} {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
