package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Files
	ConfigFile   string `long:"config" env:"CONFIG_FILE" default:"config.json" description:"Settings file (.json, .yml or .yaml)"`
	ChannelsFile string `long:"channels" env:"CHANNELS_FILE" default:"channels.json" description:"JSON list of channels to watch"`

	// Upstream endpoints
	FeedBaseURL    string  `long:"feed-base-url" env:"FEED_BASE_URL" default:"https://www.youtube.com/feeds/videos.xml" description:"Channel feed endpoint"`
	ResolveBaseURL string  `long:"resolve-base-url" env:"RESOLVE_BASE_URL" default:"https://www.youtube.com" description:"Base URL used to resolve @handles"`
	UserAgent      string  `long:"user-agent" env:"USER_AGENT" default:"ytmail/1.0" description:"User agent string for HTTP requests"`
	FetchTimeout   int     `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"HTTP timeout in seconds"`
	FetchRate      float64 `long:"fetch-rate" env:"FETCH_RATE" default:"2" description:"Maximum feed requests per second"`

	// Status API
	HTTPPort     string `long:"http-port" env:"HTTP_PORT" description:"Port for the status API (disabled when empty)"`
	APIAccessKey string `long:"api-access-key" env:"API_ACCESS_KEY" description:"Key for /api endpoints (disabled when empty)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses process flags and environment. It returns (nil, nil) when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive")
	}
	if raw.FetchRate <= 0 {
		return nil, fmt.Errorf("fetch rate must be positive")
	}

	cfg := &Cfg{
		ConfigFile:     raw.ConfigFile,
		ChannelsFile:   raw.ChannelsFile,
		FeedBaseURL:    raw.FeedBaseURL,
		ResolveBaseURL: raw.ResolveBaseURL,
		UserAgent:      raw.UserAgent,
		FetchTimeout:   time.Duration(raw.FetchTimeout) * time.Second,
		FetchRate:      raw.FetchRate,
		HTTPPort:       raw.HTTPPort,
		APIAccessKey:   raw.APIAccessKey,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
