package database

import (
	"time"
)

// SeenRecord marks an item whose notification decision is final.
type SeenRecord struct {
	ChannelID  string
	ItemID     string
	Title      string
	Published  string // raw feed timestamp, stored verbatim
	RecordedAt time.Time
}
