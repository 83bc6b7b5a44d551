package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"
)

var _ SeenRepository = (*SeenItemRepository)(nil)

// SeenItemRepository persists seen items. Inserting an existing (channel_id, item_id)
// is ignored: the stored record stays authoritative and is never overwritten.
type SeenItemRepository struct {
	db *DB
}

func NewSeenItemRepository(db *DB) *SeenItemRepository {
	return &SeenItemRepository{db: db}
}

func (r *SeenItemRepository) HasSeen(ctx context.Context, channelID, itemID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM seen_items
		WHERE channel_id = ? AND item_id = ?
	`, channelID, itemID).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "check seen item", Err: err}
	}

	return true, nil
}

func (r *SeenItemRepository) Record(ctx context.Context, record SeenRecord) error {
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO seen_items (channel_id, item_id, title, published, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (channel_id, item_id) DO NOTHING
	`, record.ChannelID, record.ItemID, record.Title, record.Published,
		recordedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return &StoreError{Op: "record seen item", Err: err}
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		slog.Debug("Seen item already recorded, keeping existing record",
			"channel", record.ChannelID, "item", record.ItemID)
	}

	return nil
}

// Get returns the stored record, or nil when the item was never recorded.
func (r *SeenItemRepository) Get(ctx context.Context, channelID, itemID string) (*SeenRecord, error) {
	var record SeenRecord
	var recordedAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT channel_id, item_id, title, published, recorded_at
		FROM seen_items
		WHERE channel_id = ? AND item_id = ?
	`, channelID, itemID).Scan(&record.ChannelID, &record.ItemID, &record.Title, &record.Published, &recordedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "get seen item", Err: err}
	}

	if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
		record.RecordedAt = t
	}

	return &record, nil
}

// ListByChannel returns the newest records of a channel first.
func (r *SeenItemRepository) ListByChannel(ctx context.Context, channelID string, limit int) ([]SeenRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT channel_id, item_id, title, published, recorded_at
		FROM seen_items
		WHERE channel_id = ?
		ORDER BY recorded_at DESC, published DESC
		LIMIT ?
	`, channelID, limit)
	if err != nil {
		return nil, &StoreError{Op: "list seen items", Err: err}
	}
	defer rows.Close()

	var records []SeenRecord
	for rows.Next() {
		var record SeenRecord
		var recordedAt string
		if err := rows.Scan(&record.ChannelID, &record.ItemID, &record.Title, &record.Published, &recordedAt); err != nil {
			return nil, &StoreError{Op: "scan seen item", Err: err}
		}
		if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			record.RecordedAt = t
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate seen items", Err: err}
	}

	return records, nil
}

func (r *SeenItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seen_items").Scan(&count)
	if err != nil {
		return 0, &StoreError{Op: "count seen items", Err: err}
	}
	return count, nil
}

func (r *SeenItemRepository) CountByChannel(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT channel_id, COUNT(*)
		FROM seen_items
		GROUP BY channel_id
	`)
	if err != nil {
		return nil, &StoreError{Op: "count seen items by channel", Err: err}
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var channelID string
		var count int
		if err := rows.Scan(&channelID, &count); err != nil {
			return nil, &StoreError{Op: "scan seen item count", Err: err}
		}
		counts[channelID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate seen item counts", Err: err}
	}

	return counts, nil
}
