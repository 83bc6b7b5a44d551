package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/resolver"
)

var (
	errDuplicate = errors.New("channel already exists")
	errAborted   = errors.New("aborted")
)

type channelResolver interface {
	Lookup(ctx context.Context, input string) (*resolver.Profile, error)
}

type adder struct {
	channelsFile string
	resolver     channelResolver
	in           *bufio.Reader
	out          io.Writer
}

// add resolves input and appends it to the channel list. An empty name falls
// back to the profile name, then to the channel ID.
func (a *adder) add(ctx context.Context, input, name string) error {
	channels, err := channel.LoadOrEmpty(a.channelsFile)
	if errors.Is(err, channel.ErrMalformed) {
		fmt.Fprintf(a.out, "Warning: %s is invalid JSON. Starting fresh.\n", a.channelsFile)
	} else if err != nil {
		return err
	}

	profile, err := a.resolver.Lookup(ctx, input)
	if err != nil {
		return err
	}

	if channel.Contains(channels, profile.ChannelID) {
		fmt.Fprintln(a.out, "That channel already exists.")
		return errDuplicate
	}

	ch := channel.Channel{
		ID:   profile.ChannelID,
		Name: cmp.Or(strings.TrimSpace(name), profile.Name, profile.ChannelID),
	}

	if err := channel.Save(a.channelsFile, append(channels, ch)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Channel added: %s (%s)\n", ch.Name, ch.ID)
	return nil
}

func (a *adder) interactive(ctx context.Context) error {
	for {
		input, err := a.prompt("Paste YouTube handle or URL (e.g. @veritasium or full URL): ")
		if err != nil {
			return err
		}

		name, err := a.prompt("What should we call this channel? (e.g. Veritasium): ")
		if err != nil {
			return err
		}

		err = a.add(ctx, input, name)
		if !errors.Is(err, resolver.ErrNotResolvable) {
			return err
		}

		fmt.Fprintf(a.out, "Could not extract channel ID: %v\n", err)

		answer, err := a.prompt("Y to retry, anything else to quit: ")
		if err != nil || strings.ToLower(answer) != "y" {
			return errAborted
		}
	}
}

func (a *adder) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)

	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}
