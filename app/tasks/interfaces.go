package tasks

import (
	"context"

	"github.com/asellingson28/ytmail/app/database"
	"github.com/asellingson28/ytmail/app/feed"
)

type FeedFetcher interface {
	FetchLatest(ctx context.Context, channelID string) (*feed.Item, error)
}

type SeenStore interface {
	HasSeen(ctx context.Context, channelID, itemID string) (bool, error)
	Record(ctx context.Context, record database.SeenRecord) error
}

type Notifier interface {
	Notify(ctx context.Context, channelName string, item feed.Item) error
}

// SchedulerInterface drives sweeps over the channel list.
//
//	scheduler := NewScheduler(channels, fetcher, store, notifier, interval)
//	scheduler.Start(ctx)
//	defer scheduler.Stop()
type SchedulerInterface interface {
	Start(ctx context.Context)
	Stop()
	Sweep(ctx context.Context) SweepReport
	LastReport() *SweepReport
}
