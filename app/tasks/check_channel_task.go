package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/database"
	"github.com/asellingson28/ytmail/app/feed"
)

type Outcome string

const (
	OutcomeNew          Outcome = "new"
	OutcomeSeen         Outcome = "seen"
	OutcomeEmpty        Outcome = "empty"
	OutcomeFiltered     Outcome = "filtered"
	OutcomeFetchFailed  Outcome = "fetch_failed"
	OutcomeStoreFailed  Outcome = "store_failed"
	OutcomeNotifyFailed Outcome = "notify_failed"
	OutcomeCanceled     Outcome = "canceled"
)

// CheckChannelTask looks at the latest item of one channel. A new item is
// recorded before the notification is attempted, so a crash or a send failure
// loses the alert instead of repeating it.
type CheckChannelTask struct {
	Task
	Channel  channel.Channel
	Outcome  Outcome
	Item     *feed.Item
	fetcher  FeedFetcher
	store    SeenStore
	notifier Notifier
	filterer *feed.Filterer
}

func NewCheckChannelTask(ch channel.Channel, fetcher FeedFetcher, store SeenStore, notifier Notifier, filterer *feed.Filterer) *CheckChannelTask {
	return &CheckChannelTask{
		Task:     NewTask(TaskTypeCheckChannel, ch.ID),
		Channel:  ch,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		filterer: filterer,
	}
}

func (t *CheckChannelTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		t.Outcome = OutcomeCanceled
		return ctx.Err()
	default:
	}

	item, err := t.fetcher.FetchLatest(ctx, t.ChannelID)
	if err != nil {
		t.Outcome = OutcomeFetchFailed
		return fmt.Errorf("failed to fetch latest item: %w", err)
	}

	if item == nil {
		t.Outcome = OutcomeEmpty
		slog.Debug("Channel feed has no entries", "channel", t.ChannelID)
		return nil
	}
	t.Item = item

	seen, err := t.store.HasSeen(ctx, t.ChannelID, item.ID)
	if err != nil {
		t.Outcome = OutcomeStoreFailed
		return fmt.Errorf("failed to check seen item: %w", err)
	}

	if seen {
		t.Outcome = OutcomeSeen
		slog.Debug("Latest item already seen", "channel", t.ChannelID, "item", item.ID)
		return nil
	}

	err = t.store.Record(ctx, database.SeenRecord{
		ChannelID:  t.ChannelID,
		ItemID:     item.ID,
		Title:      item.Title,
		Published:  item.Published,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Outcome = OutcomeStoreFailed
		return fmt.Errorf("failed to record seen item: %w", err)
	}

	if t.filterer != nil {
		if filtered, reason := t.filterer.Run(*item, t.Channel.Filters); filtered {
			t.Outcome = OutcomeFiltered
			slog.Info("Task completed",
				"type", "CheckedChannel",
				"channel", t.ChannelID,
				"item", item.ID,
				"duration", t.GetDuration(),
				"filtered", reason)
			return nil
		}
	}

	// The record is committed; shutting down must not drop this one message.
	if err := t.notifier.Notify(context.WithoutCancel(ctx), t.Channel.Name, *item); err != nil {
		t.Outcome = OutcomeNotifyFailed
		return fmt.Errorf("failed to notify: %w", err)
	}

	t.Outcome = OutcomeNew

	slog.Info("Task completed",
		"type", "CheckedChannel",
		"channel", t.ChannelID,
		"item", item.ID,
		"title", item.Title,
		"duration", t.GetDuration())

	return nil
}
