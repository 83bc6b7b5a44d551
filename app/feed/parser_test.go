package feed

import (
	"errors"
	"strings"
	"testing"
)

func TestParserReturnsFirstEntry(t *testing.T) {
	parser := NewParser()
	data := youtubeFeed(
		youtubeEntry("v2", "Episode 2", "2024-01-08T00:00:00+00:00"),
		youtubeEntry("v1", "Episode 1", "2024-01-01T00:00:00+00:00"),
	)

	item, err := parser.Run([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if item == nil {
		t.Fatal("Expected an item, got nil")
	}

	if item.ID != "v2" {
		t.Errorf("Expected video id 'v2', got '%s'", item.ID)
	}
	if item.Title != "Episode 2" {
		t.Errorf("Expected title 'Episode 2', got '%s'", item.Title)
	}
	if item.Published != "2024-01-08T00:00:00+00:00" {
		t.Errorf("Expected raw published timestamp, got '%s'", item.Published)
	}
	if item.Link != "https://www.youtube.com/watch?v=v2" {
		t.Errorf("Expected watch link, got '%s'", item.Link)
	}
}

func TestParserEmptyFeed(t *testing.T) {
	parser := NewParser()

	item, err := parser.Run([]byte(youtubeFeed()))
	if err != nil {
		t.Fatalf("Expected no error for empty feed, got %v", err)
	}
	if item != nil {
		t.Errorf("Expected nil item for empty feed, got %+v", item)
	}
}

func TestParserFallsBackToEntryID(t *testing.T) {
	parser := NewParser()
	entry := strings.Replace(youtubeEntry("v9", "Episode 9", "2024-02-01T00:00:00+00:00"),
		"<yt:videoId>v9</yt:videoId>", "", 1)

	item, err := parser.Run([]byte(youtubeFeed(entry)))
	if err != nil {
		t.Fatal(err)
	}
	if item.ID != "v9" {
		t.Errorf("Expected video id 'v9' from entry id, got '%s'", item.ID)
	}
}

func TestParserMalformedFirstEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{
			name:  "missing title",
			entry: strings.Replace(youtubeEntry("v1", "Episode 1", "2024-01-01T00:00:00Z"), "<title>Episode 1</title>", "", 1),
		},
		{
			name: "missing published",
			entry: strings.NewReplacer(
				"<published>2024-01-01T00:00:00Z</published>", "",
				"<updated>2024-01-01T00:00:00Z</updated>", "",
			).Replace(youtubeEntry("v1", "Episode 1", "2024-01-01T00:00:00Z")),
		},
		{
			name: "missing video id",
			entry: strings.NewReplacer(
				"<yt:videoId>v1</yt:videoId>", "",
				"<id>yt:video:v1</id>", "<id>urn:other:1</id>",
			).Replace(youtubeEntry("v1", "Episode 1", "2024-01-01T00:00:00Z")),
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := parser.Run([]byte(youtubeFeed(tt.entry)))
			if err == nil {
				t.Fatalf("Expected error, got item %+v", item)
			}
			if !errors.Is(err, ErrMalformedEntry) {
				t.Errorf("Expected ErrMalformedEntry, got %v", err)
			}
		})
	}
}

func TestParserInvalidDocument(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("<html><body>not a feed</body></html>")); err == nil {
		t.Error("Expected error for non-feed document")
	}
}
