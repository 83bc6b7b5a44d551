package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// Client fetches channel feeds and returns the latest entry.
type Client struct {
	httpClient *http.Client
	parser     *Parser
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// NewClient builds a feed client. A nil limiter disables request pacing.
func NewClient(httpClient *http.Client, baseURL, userAgent string, limiter *rate.Limiter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		parser:     NewParser(),
		limiter:    limiter,
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

func (c *Client) FeedURL(channelID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed base URL: %w", err)
	}
	q := u.Query()
	q.Set("channel_id", channelID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchLatest returns the most recent item of the channel feed, or nil when the feed is
// empty. Every failure is a *FetchError.
func (c *Client) FetchLatest(ctx context.Context, channelID string) (*Item, error) {
	data, status, err := c.fetch(ctx, channelID)
	if err != nil {
		return nil, &FetchError{ChannelID: channelID, StatusCode: status, Err: err}
	}

	item, err := c.parser.Run(data)
	if err != nil {
		return nil, &FetchError{ChannelID: channelID, Err: err}
	}

	if item == nil {
		slog.Debug("Feed has no entries", "channel", channelID)
		return nil, nil
	}

	slog.Debug("Feed fetched", "channel", channelID, "latest", item.ID)
	return item, nil
}

func (c *Client) fetch(ctx context.Context, channelID string) ([]byte, int, error) {
	feedURL, err := c.FeedURL(channelID)
	if err != nil {
		return nil, 0, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, resp.StatusCode, nil
}
