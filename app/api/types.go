package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/database"
	"github.com/asellingson28/ytmail/app/feed"
	"github.com/asellingson28/ytmail/app/tasks"
)

type SeenReader interface {
	ListByChannel(ctx context.Context, channelID string, limit int) ([]database.SeenRecord, error)
	Count(ctx context.Context) (int, error)
	CountByChannel(ctx context.Context) (map[string]int, error)
}

type GeneratorInterface interface {
	Run(ch channel.Channel, records []database.SeenRecord, selfLink string) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	channels  []channel.Channel
	seenRepo  SeenReader
	generator GeneratorInterface
	scheduler tasks.SchedulerInterface
	gatherer  prometheus.Gatherer
	version   string
}
