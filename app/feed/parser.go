package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

const videoIDPrefix = "yt:video:"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses a feed document and returns its first entry, or nil when the feed has none.
// Entries after the first are ignored.
func (p *Parser) Run(data []byte) (*Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if len(feed.Items) == 0 || feed.Items[0] == nil {
		return nil, nil
	}

	item, err := p.normalizeItem(feed.Items[0])
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) (Item, error) {
	normalized := Item{
		ID:        p.extractVideoID(item),
		Title:     strings.TrimSpace(item.Title),
		Published: strings.TrimSpace(item.Published),
		Link:      strings.TrimSpace(item.Link),
	}

	if normalized.Link == "" && len(item.Links) > 0 {
		normalized.Link = strings.TrimSpace(item.Links[0])
	}

	requiredFields := []struct {
		name  string
		value string
	}{
		{"video id", normalized.ID},
		{"title", normalized.Title},
		{"published", normalized.Published},
		{"link", normalized.Link},
	}

	for _, field := range requiredFields {
		if field.value == "" {
			return Item{}, fmt.Errorf("%w: %s is missing", ErrMalformedEntry, field.name)
		}
	}

	return normalized, nil
}

// extractVideoID prefers the yt:videoId element and falls back to the entry id.
func (p *Parser) extractVideoID(item *gofeed.Item) string {
	for _, elements := range item.Extensions {
		for _, ext := range elements["videoId"] {
			if id := strings.TrimSpace(ext.Value); id != "" {
				return id
			}
		}
	}

	guid := strings.TrimSpace(item.GUID)
	if strings.HasPrefix(guid, videoIDPrefix) {
		return strings.TrimPrefix(guid, videoIDPrefix)
	}
	return ""
}
