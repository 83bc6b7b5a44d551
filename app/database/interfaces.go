package database

import "context"

type SeenRepository interface {
	HasSeen(ctx context.Context, channelID, itemID string) (bool, error)
	Record(ctx context.Context, record SeenRecord) error

	ListByChannel(ctx context.Context, channelID string, limit int) ([]SeenRecord, error)
	Count(ctx context.Context) (int, error)
	CountByChannel(ctx context.Context) (map[string]int, error)
}
