package feed

import (
	"errors"
	"fmt"
)

// ErrMalformedEntry marks a first entry that lacks a required field.
var ErrMalformedEntry = errors.New("malformed feed entry")

// FetchError reports a failed feed fetch. It is distinct from an empty feed, which is not
// an error at all.
type FetchError struct {
	ChannelID  string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch feed for channel %s: HTTP %d: %v", e.ChannelID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch feed for channel %s: %v", e.ChannelID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
