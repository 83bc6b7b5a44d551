package resolver

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
)

// profileName suggests a display name for the channel. og:title wins; the
// readability title is the fallback for pages without Open Graph metadata.
func profileName(doc *goquery.Document, body []byte, pageURL string) string {
	if title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")); title != "" {
		return title
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL(pageURL))
	if err != nil {
		slog.Debug("No readable title on profile page", "url", pageURL, "error", err)
		return ""
	}

	return strings.TrimSpace(strings.TrimSuffix(article.Title, " - YouTube"))
}

func parsedURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}
