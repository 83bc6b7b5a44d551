package channel

// Channel is one watched channel as stored in channels.json.
type Channel struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Filters []Filter `json:"filters,omitempty"`
}

// Filter suppresses notifications for items whose field does not match.
type Filter struct {
	Field    string   `json:"field"`
	Includes []string `json:"includes,omitempty"`
	Excludes []string `json:"excludes,omitempty"`
}
