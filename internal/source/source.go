package source

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"dacrelay/internal/relay"
)

// LineFunc handles one command line. A non-nil error stops the source.
type LineFunc func(line string) error

// Source feeds command lines to a LineFunc until it is exhausted, the context is done
// or the LineFunc fails.
type Source interface {
	Run(ctx context.Context, handle LineFunc) error
}

// maxToken is one byte over the relay limit, so a cut line is still rejected there.
const maxToken = relay.MaxLineLength + 1

// scan calls handle for every line of r. It returns nil at end of input.
func scan(ctx context.Context, r io.Reader, handle LineFunc) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxToken+1)
	sc.Split(splitLines(maxToken))
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handle(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// splitLines is bufio.ScanLines with a bounded token. A line longer than limit comes out
// cut to limit bytes and the rest of it, up to the newline, is dropped.
func splitLines(limit int) bufio.SplitFunc {
	skipping := false
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if skipping {
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				skipping = false
				return i + 1, nil, nil
			}
			return len(data), nil, nil
		}
		if len(data) > limit && bytes.IndexByte(data[:limit+1], '\n') < 0 {
			skipping = true
			return limit, data[:limit], nil
		}
		return bufio.ScanLines(data, atEOF)
	}
}
