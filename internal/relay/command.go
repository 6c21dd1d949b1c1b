package relay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrMalformedCommand is returned for a line that is neither a select nor an integer.
	ErrMalformedCommand = errors.New("malformed command")
	// ErrTransfer wraps a failed bus transfer.
	ErrTransfer = errors.New("spi transfer failed")
)

// Kind tells what a command does.
type Kind int

const (
	// KindSelect switches the channel offset.
	KindSelect Kind = iota
	// KindMagnitude requests an output level on the current channel.
	KindMagnitude
)

// MaxLineLength is the longest line accepted as a command. Longer lines are malformed.
const MaxLineLength = 64 * 1024

// Command is one parsed input line.
type Command struct {
	Kind      Kind
	Channel   Channel // Channel - set for KindSelect.
	Magnitude int64   // Magnitude - set for KindMagnitude.
}

// ParseCommand classifies a line. Trailing whitespace is dropped, the rest must be
// "a", "b" or a base-10 integer. Leading whitespace is allowed before an integer only.
func ParseCommand(line string) (Command, error) {
	if len(line) > MaxLineLength {
		return Command{}, fmt.Errorf("%w: line too long (%d bytes)", ErrMalformedCommand, len(line))
	}
	token := strings.TrimRightFunc(line, unicode.IsSpace)
	switch token {
	case "a":
		return Command{Kind: KindSelect, Channel: ChannelA}, nil
	case "b":
		return Command{Kind: KindSelect, Channel: ChannelB}, nil
	}
	m, err := strconv.ParseInt(strings.TrimLeftFunc(token, unicode.IsSpace), 10, 64)
	if err != nil {
		return Command{}, fmt.Errorf("%w %q: %v", ErrMalformedCommand, token, err)
	}
	return Command{Kind: KindMagnitude, Magnitude: m}, nil
}
