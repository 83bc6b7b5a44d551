package resolver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxProfileSize = 4 << 20

var channelIDPattern = regexp.MustCompile(`/channel/([a-zA-Z0-9_-]+)`)

// Profile is what a lookup learns about a channel. Name is empty for direct
// channel links, which are resolved without fetching anything.
type Profile struct {
	ChannelID string
	Name      string
	URL       string
}

type Resolver struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewResolver(httpClient *http.Client, baseURL, userAgent string) *Resolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Resolver{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// Resolve maps a handle (@name), handle URL or direct channel URL to a channel ID.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	profile, err := r.Lookup(ctx, input)
	if err != nil {
		return "", err
	}
	return profile.ChannelID, nil
}

func (r *Resolver) Lookup(ctx context.Context, input string) (*Profile, error) {
	input = strings.TrimSpace(input)

	if id, ok := directChannelID(input); ok {
		return &Profile{ChannelID: id, URL: input}, nil
	}

	pageURL, ok := r.profileURL(input)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a handle or channel URL", ErrNotResolvable, input)
	}

	body, err := r.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse profile page: %v", ErrNotResolvable, err)
	}

	canonical, _ := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	match := channelIDPattern.FindStringSubmatch(canonical)
	if match == nil {
		return nil, fmt.Errorf("%w: no canonical channel link on %s", ErrNotResolvable, pageURL)
	}

	profile := &Profile{
		ChannelID: match[1],
		Name:      profileName(doc, body, pageURL),
		URL:       pageURL,
	}

	slog.Debug("Channel resolved", "input", input, "channel", profile.ChannelID, "name", profile.Name)

	return profile, nil
}

func directChannelID(input string) (string, bool) {
	if !strings.Contains(input, "youtube.com/") {
		return "", false
	}

	_, rest, found := strings.Cut(input, "/channel/")
	if !found {
		return "", false
	}

	id := rest
	if i := strings.IndexAny(id, "/?#"); i >= 0 {
		id = id[:i]
	}

	return id, id != ""
}

func (r *Resolver) profileURL(input string) (string, bool) {
	switch {
	case strings.HasPrefix(input, "@") && len(input) > 1:
		return r.baseURL + "/" + input, true
	case strings.Contains(input, "youtube.com/") && strings.Contains(input, "/@"):
		if !strings.Contains(input, "://") {
			input = "https://" + input
		}
		return input, true
	default:
		return "", false
	}
}

func (r *Resolver) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrNotResolvable, err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch %s: %v", ErrNotResolvable, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrNotResolvable, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read profile page: %v", ErrNotResolvable, err)
	}

	return body, nil
}
