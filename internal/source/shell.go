package source

import (
	"context"
	"errors"
	"strings"

	"dacrelay/internal/relay"
	"github.com/abiosoft/ishell"
)

const shellPrompt = "dac> "

// Shell is an interactive console on the terminal. Malformed commands are reported and
// the console keeps running; any other error ends it.
type Shell struct {
	// Status renders the current relay state for the status command.
	Status func() string
}

// NewShell creates a Shell.
func NewShell(status func() string) *Shell {
	return &Shell{Status: status}
}

// Run implements Source. It returns nil when the user exits the console.
func (s *Shell) Run(ctx context.Context, handle LineFunc) error {
	sh := ishell.New()
	sh.SetPrompt(shellPrompt)

	k := &console{handle: handle}
	exec := func(c *ishell.Context, line string) {
		if out := k.run(line); out != "" {
			c.Println(out)
		}
		if k.fatal != nil {
			c.Stop()
		}
	}

	sh.AddCmd(&ishell.Cmd{
		Name: "a",
		Help: "select channel a (0x9000)",
		Func: func(c *ishell.Context) { exec(c, "a") },
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "b",
		Help: "select channel b (0xA000)",
		Func: func(c *ishell.Context) { exec(c, "b") },
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "set <magnitude> on the current channel",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println("usage: set <magnitude>")
				return
			}
			exec(c, c.Args[0])
		},
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show channel and last value",
		Func: func(c *ishell.Context) {
			if s.Status != nil {
				c.Println(s.Status())
			}
		},
	})
	// bare magnitudes
	sh.NotFound(func(c *ishell.Context) {
		exec(c, bareLine(c.Args))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			sh.Close()
		case <-done:
		}
	}()

	sh.Run()
	if k.fatal != nil {
		return k.fatal
	}
	return ctx.Err()
}

// console runs shell lines against the relay.
type console struct {
	handle LineFunc
	fatal  error
}

// run executes line and returns what to print. A malformed command is reported and the
// console goes on; any other error is kept in fatal and ends it.
func (k *console) run(line string) string {
	err := k.handle(line)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, relay.ErrMalformedCommand):
		return err.Error()
	}
	k.fatal = err
	return err.Error()
}

// bareLine rebuilds a line the shell did not recognise as a command, e.g. "5".
func bareLine(args []string) string {
	return strings.Join(args, " ")
}
