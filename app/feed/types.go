package feed

// Item is the normalized latest entry of a channel feed.
type Item struct {
	ID        string
	Title     string
	Published string // raw ISO-8601 timestamp as published in the feed
	Link      string
}
