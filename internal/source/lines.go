package source

import (
	"context"
)

// Lines is a source fed from a channel, used for commands arriving over MQTT.
type Lines struct {
	ch <-chan string
}

// NewLines creates a Lines reading from ch.
func NewLines(ch <-chan string) *Lines {
	return &Lines{ch: ch}
}

// Run implements Source. It returns nil when ch is closed.
func (s *Lines) Run(ctx context.Context, handle LineFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-s.ch:
			if !ok {
				return nil
			}
			if err := handle(line); err != nil {
				return err
			}
		}
	}
}
