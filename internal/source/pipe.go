package source

import (
	"context"
	"fmt"
	"os"

	"dacrelay/internal/logger"
)

// Pipe is the persistent source. It reads a named pipe until the writer closes it,
// then opens it again, forever.
type Pipe struct {
	Path string
	log  logger.Logger
}

// NewPipe creates a Pipe for path.
func NewPipe(log logger.Logger, path string) *Pipe {
	return &Pipe{Path: path, log: log}
}

// Run implements Source. It only returns on error or when ctx is done. Opening the pipe
// blocks until a writer shows up and is not interrupted by ctx.
func (p *Pipe) Run(ctx context.Context, handle LineFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.drain(ctx, handle); err != nil {
			return err
		}
		p.log.With(logger.Fields{"module": "pipe"}).Debug("writer closed, reopening ", p.Path)
	}
}

func (p *Pipe) drain(ctx context.Context, handle LineFunc) error {
	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("open pipe: %w", err)
	}
	defer f.Close()
	p.log.With(logger.Fields{"module": "pipe"}).Debug("opened ", p.Path)

	return scan(ctx, f, handle)
}
