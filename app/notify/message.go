package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/asellingson28/ytmail/app/feed"
)

var bodyTemplate = template.Must(template.New("body").Parse(`<h2>{{.Title}}</h2>
<p><a href="{{.Link}}">Watch on YouTube</a></p>
<p><small>Published: {{.Published}}</small></p>
`))

func subject(channelName string, item feed.Item) string {
	return fmt.Sprintf("New video from %s: %s", channelName, item.Title)
}

func body(item feed.Item) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, item); err != nil {
		return "", fmt.Errorf("failed to render body: %w", err)
	}
	return buf.String(), nil
}
