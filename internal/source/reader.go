package source

import (
	"context"
	"io"
)

// Reader is the one-shot source: every line of R once, then done.
type Reader struct {
	R io.Reader
}

// NewReader creates a Reader over r, usually os.Stdin.
func NewReader(r io.Reader) *Reader {
	return &Reader{R: r}
}

// Run implements Source. It returns nil at end of input.
func (s *Reader) Run(ctx context.Context, handle LineFunc) error {
	return scan(ctx, s.R, handle)
}
