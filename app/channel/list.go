package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformed is returned when the channel list exists but is not valid JSON.
var ErrMalformed = errors.New("channel list is not valid JSON")

// Load reads and validates the channel list used by the daemon. A missing or malformed
// file is an error.
func Load(path string) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel list: %w", err)
	}

	channels, err := decode(data)
	if err != nil {
		return nil, err
	}

	if err := Validate(channels); err != nil {
		return nil, fmt.Errorf("invalid channel list %s: %w", path, err)
	}

	return channels, nil
}

// LoadOrEmpty is the lenient variant used when editing the list: a missing file yields an
// empty list and a malformed one yields an empty list together with ErrMalformed.
func LoadOrEmpty(path string) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Channel{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read channel list: %w", err)
	}

	channels, err := decode(data)
	if err != nil {
		return []Channel{}, err
	}
	return channels, nil
}

// Save writes the list as indented JSON, replacing the file atomically.
func Save(path string, channels []Channel) error {
	if channels == nil {
		channels = []Channel{}
	}

	data, err := json.MarshalIndent(channels, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode channel list: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write channel list: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync channel list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close channel list: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace channel list: %w", err)
	}
	return nil
}

func Contains(channels []Channel, id string) bool {
	for _, ch := range channels {
		if ch.ID == id {
			return true
		}
	}
	return false
}

// Validate rejects empty and duplicate identifiers and malformed filters. Channels with
// an empty name are named after their identifier.
func Validate(channels []Channel) error {
	seen := make(map[string]int, len(channels))

	for i := range channels {
		ch := &channels[i]
		ch.ID = strings.TrimSpace(ch.ID)
		if ch.ID == "" {
			return fmt.Errorf("channel at index %d has no id", i)
		}
		if first, ok := seen[ch.ID]; ok {
			return fmt.Errorf("duplicate channel id %s at index %d (first at %d)", ch.ID, i, first)
		}
		seen[ch.ID] = i

		if strings.TrimSpace(ch.Name) == "" {
			ch.Name = ch.ID
		}

		if err := validateFilters(ch.Filters); err != nil {
			return fmt.Errorf("channel %s: %w", ch.ID, err)
		}
	}

	return nil
}

var validFilterFields = map[string]bool{
	"title": true,
	"link":  true,
}

func validateFilters(filters []Filter) error {
	for i, filter := range filters {
		if !validFilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}
	return nil
}

func decode(data []byte) ([]Channel, error) {
	var channels []Channel
	if err := json.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if channels == nil {
		channels = []Channel{}
	}
	return channels, nil
}
