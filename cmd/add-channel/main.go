package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/asellingson28/ytmail/app/resolver"
)

type options struct {
	ChannelsFile   string `long:"channels" env:"CHANNELS_FILE" default:"channels.json" description:"JSON list of channels to edit"`
	Name           string `short:"n" long:"name" description:"Display name for the channel (defaults to the profile name)"`
	ResolveBaseURL string `long:"resolve-base-url" env:"RESOLVE_BASE_URL" default:"https://www.youtube.com" description:"Base URL used to resolve @handles"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"ytmail/1.0" description:"User agent string for HTTP requests"`
	Timeout        int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"HTTP timeout in seconds"`
	Debug          bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Input string `positional-arg-name:"handle-or-url" description:"@handle, handle URL or channel URL; prompts when omitted"`
	} `positional-args:"yes"`
}

func main() {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: time.Duration(opts.Timeout) * time.Second}

	a := &adder{
		channelsFile: opts.ChannelsFile,
		resolver:     resolver.NewResolver(httpClient, opts.ResolveBaseURL, opts.UserAgent),
		in:           bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}

	var err error
	if opts.Args.Input != "" {
		err = a.add(ctx, opts.Args.Input, opts.Name)
	} else {
		err = a.interactive(ctx)
	}

	if err != nil && !errors.Is(err, errAborted) {
		if !errors.Is(err, errDuplicate) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
