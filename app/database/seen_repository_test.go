package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()

	db, err := NewConnection(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if _, dirty, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	} else if dirty {
		t.Fatal("Expected clean migration state")
	}

	return db
}

func TestNewConnection_EmptyPath(t *testing.T) {
	if _, err := NewConnection(""); err == nil {
		t.Error("Expected error for empty database path")
	}
}

func TestNewConnection_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "seen.db")

	db := openTestDB(t, path)
	defer db.Close()
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected second migration run to succeed, got %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected version 1 and clean state, got %d dirty=%v", version, dirty)
	}
}

func TestSeenItemRepository_RecordAndHasSeen(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	defer db.Close()

	repo := NewSeenItemRepository(db)

	seen, err := repo.HasSeen(ctx, "UCabc123", "v1")
	if err != nil {
		t.Fatalf("HasSeen failed: %v", err)
	}
	if seen {
		t.Error("Expected unrecorded item to be unseen")
	}

	err = repo.Record(ctx, SeenRecord{
		ChannelID: "UCabc123",
		ItemID:    "v1",
		Title:     "Episode 1",
		Published: "2024-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	seen, err = repo.HasSeen(ctx, "UCabc123", "v1")
	if err != nil {
		t.Fatalf("HasSeen failed: %v", err)
	}
	if !seen {
		t.Error("Expected recorded item to be seen")
	}

	// Same item id under another channel is a different key
	seen, err = repo.HasSeen(ctx, "UCother", "v1")
	if err != nil {
		t.Fatalf("HasSeen failed: %v", err)
	}
	if seen {
		t.Error("Expected item to be unseen for a different channel")
	}
}

func TestSeenItemRepository_DuplicateIsIgnored(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	defer db.Close()

	repo := NewSeenItemRepository(db)

	first := SeenRecord{ChannelID: "UCabc123", ItemID: "v1", Title: "Episode 1", Published: "2024-01-01T00:00:00Z"}
	if err := repo.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second := SeenRecord{ChannelID: "UCabc123", ItemID: "v1", Title: "Renamed", Published: "2024-02-02T00:00:00Z"}
	if err := repo.Record(ctx, second); err != nil {
		t.Fatalf("Expected duplicate record to be ignored, got %v", err)
	}

	stored, err := repo.Get(ctx, "UCabc123", "v1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored == nil {
		t.Fatal("Expected stored record")
	}
	if stored.Title != "Episode 1" {
		t.Errorf("Expected title 'Episode 1', got '%s'", stored.Title)
	}
	if stored.Published != "2024-01-01T00:00:00Z" {
		t.Errorf("Expected first published timestamp, got '%s'", stored.Published)
	}
	if stored.RecordedAt.IsZero() {
		t.Error("Expected recorded_at to be set")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record, got %d", count)
	}
}

func TestSeenItemRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seen.db")

	db := openTestDB(t, path)
	repo := NewSeenItemRepository(db)
	if err := repo.Record(ctx, SeenRecord{ChannelID: "UCabc123", ItemID: "v1", Title: "Episode 1", Published: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	db.Close()

	db = openTestDB(t, path)
	defer db.Close()

	seen, err := NewSeenItemRepository(db).HasSeen(ctx, "UCabc123", "v1")
	if err != nil {
		t.Fatalf("HasSeen failed: %v", err)
	}
	if !seen {
		t.Error("Expected record to survive reopening the database")
	}
}

func TestSeenItemRepository_Get_NotFound(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	defer db.Close()

	record, err := NewSeenItemRepository(db).Get(context.Background(), "UCabc123", "missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if record != nil {
		t.Errorf("Expected nil record, got %+v", record)
	}
}

func TestSeenItemRepository_CountByChannel(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	defer db.Close()

	repo := NewSeenItemRepository(db)
	records := []SeenRecord{
		{ChannelID: "UCa", ItemID: "v1", Title: "A1", Published: "2024-01-01T00:00:00Z"},
		{ChannelID: "UCa", ItemID: "v2", Title: "A2", Published: "2024-01-02T00:00:00Z"},
		{ChannelID: "UCb", ItemID: "v1", Title: "B1", Published: "2024-01-01T00:00:00Z"},
	}
	for _, r := range records {
		if err := repo.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	counts, err := repo.CountByChannel(ctx)
	if err != nil {
		t.Fatalf("CountByChannel failed: %v", err)
	}
	if counts["UCa"] != 2 || counts["UCb"] != 1 {
		t.Errorf("Expected UCa=2 UCb=1, got %v", counts)
	}
}

func TestSeenItemRepository_ClosedDatabase(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	repo := NewSeenItemRepository(db)
	db.Close()

	_, err := repo.HasSeen(context.Background(), "UCabc123", "v1")

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Expected *StoreError, got %v", err)
	}
	if storeErr.Op != "check seen item" {
		t.Errorf("Expected op 'check seen item', got '%s'", storeErr.Op)
	}
}

func TestSeenItemRepository_ListByChannel(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "seen.db"))
	defer db.Close()

	repo := NewSeenItemRepository(db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []SeenRecord{
		{ChannelID: "UCa", ItemID: "v1", Title: "A1", Published: "2024-01-01T00:00:00Z", RecordedAt: base},
		{ChannelID: "UCa", ItemID: "v2", Title: "A2", Published: "2024-01-02T00:00:00Z", RecordedAt: base.Add(24 * time.Hour)},
		{ChannelID: "UCa", ItemID: "v3", Title: "A3", Published: "2024-01-03T00:00:00Z", RecordedAt: base.Add(48 * time.Hour)},
		{ChannelID: "UCb", ItemID: "v1", Title: "B1", Published: "2024-01-01T00:00:00Z", RecordedAt: base},
	}
	for _, r := range records {
		if err := repo.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	list, err := repo.ListByChannel(ctx, "UCa", 2)
	if err != nil {
		t.Fatalf("ListByChannel failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(list))
	}
	if list[0].ItemID != "v3" || list[1].ItemID != "v2" {
		t.Errorf("Expected newest first (v3, v2), got (%s, %s)", list[0].ItemID, list[1].ItemID)
	}
	if !list[0].RecordedAt.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("Expected recorded_at to round-trip, got %v", list[0].RecordedAt)
	}

	empty, err := repo.ListByChannel(ctx, "UCnone", 10)
	if err != nil {
		t.Fatalf("ListByChannel failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no records, got %d", len(empty))
	}
}
