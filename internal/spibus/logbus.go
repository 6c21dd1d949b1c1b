package spibus

import (
	"dacrelay/internal/logger"
)

// LogBus logs transfers instead of writing them. Useful off the target board.
type LogBus struct {
	log *logger.Log
	n   int
}

func NewLogBus(log *logger.Log) *LogBus {
	return &LogBus{log: log}
}

// Tx implements Bus.
func (b *LogBus) Tx(w []byte) error {
	b.n++
	b.log.Infof("tx #%d: % X", b.n, w)
	return nil
}

// Count returns the number of transfers seen.
func (b *LogBus) Count() int {
	return b.n
}

// Close implements Bus.
func (b *LogBus) Close() error {
	return nil
}
