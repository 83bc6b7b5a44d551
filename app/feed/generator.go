package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/database"
)

const (
	WatchURL   = "https://www.youtube.com/watch?v="
	ChannelURL = "https://www.youtube.com/channel/"
)

// Generator renders the items recorded for a channel as RSS 2.0.
type Generator struct {
	version string
}

func NewGenerator(version string) *Generator {
	return &Generator{version: version}
}

func (g *Generator) Run(ch channel.Channel, records []database.SeenRecord, selfLink string) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", ch.Name, 4)
	g.writeElement(&buf, "link", ChannelURL+ch.ID, 4)
	g.writeElement(&buf, "description", fmt.Sprintf("New videos announced for %s", ch.Name), 4)

	if selfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(selfLink)))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(records) > 0 {
		lastBuildDate = g.pubDate(records[0])
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("ytmail/%s", g.version), 4)

	for _, record := range records {
		g.writeItem(&buf, record)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, record database.SeenRecord) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte("yt:video:"+record.ItemID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", record.Title, 6)
	g.writeElement(buf, "link", WatchURL+record.ItemID, 6)
	g.writeElement(buf, "pubDate", g.pubDate(record).Format(time.RFC1123Z), 6)

	buf.WriteString("    </item>\n")
}

// pubDate prefers the feed timestamp and falls back to when the item was recorded.
func (g *Generator) pubDate(record database.SeenRecord) time.Time {
	if t, err := time.Parse(time.RFC3339, record.Published); err == nil {
		return t
	}
	return record.RecordedAt
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
