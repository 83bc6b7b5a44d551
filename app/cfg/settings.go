package cfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultSMTPPort = 587

// LoadSettings reads, defaults and validates the settings file. Any error here is fatal
// for the daemon.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&settings); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	setDefaults(&settings)

	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return &settings, nil
}

func setDefaults(s *Settings) {
	if s.Email.SMTPPort == 0 {
		s.Email.SMTPPort = defaultSMTPPort
	}
}

func validate(s *Settings) error {
	requiredFields := []struct {
		name  string
		value string
	}{
		{"database", s.Database},
		{"email.smtp_server", s.Email.SMTPServer},
		{"email.from", s.Email.From},
		{"email.to", s.Email.To},
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}

	if s.PollIntervalMinutes <= 0 {
		return fmt.Errorf("poll_interval_minutes must be a positive integer")
	}
	if s.Email.SMTPPort < 0 || s.Email.SMTPPort > 65535 {
		return fmt.Errorf("email.smtp_port out of range: %d", s.Email.SMTPPort)
	}

	return nil
}
