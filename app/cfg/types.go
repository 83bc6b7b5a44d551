package cfg

import "time"

type Cfg struct {
	// Files
	ConfigFile   string
	ChannelsFile string

	// Upstream endpoints
	FeedBaseURL    string
	ResolveBaseURL string
	UserAgent      string
	FetchTimeout   time.Duration
	FetchRate      float64

	// Status API
	HTTPPort     string
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// Settings mirrors the settings file (config.json or config.yml).
type Settings struct {
	Database            string        `json:"database" yaml:"database"`
	PollIntervalMinutes int           `json:"poll_interval_minutes" yaml:"poll_interval_minutes"`
	Email               EmailSettings `json:"email" yaml:"email"`
}

type EmailSettings struct {
	SMTPServer string `json:"smtp_server" yaml:"smtp_server"`
	SMTPPort   int    `json:"smtp_port" yaml:"smtp_port"`
	Username   string `json:"username" yaml:"username"`
	Password   string `json:"password" yaml:"password"`
	From       string `json:"from" yaml:"from"`
	To         string `json:"to" yaml:"to"`
}

func (s *Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMinutes) * time.Minute
}
