package notify

import "fmt"

// NotifyError reports a notification that was not delivered. It is never retried.
type NotifyError struct {
	ChannelName string
	ItemID      string
	Err         error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("failed to notify about %s from %s: %v", e.ItemID, e.ChannelName, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
