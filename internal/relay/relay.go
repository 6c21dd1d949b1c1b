package relay

import (
	"fmt"
	"sync"

	"dacrelay/internal/logger"
)

// Bus is the write side of the peripheral bus.
type Bus interface {
	Tx(w []byte) error
}

// Notifier is called after every successful transfer.
type Notifier interface {
	Transferred(t Transfer)
}

// NotifierFunc is func type of Notifier.
type NotifierFunc func(t Transfer)

// Transferred implements Notifier.
func (f NotifierFunc) Transferred(t Transfer) {
	f(t)
}

// Policy decides what happens to a malformed line.
type Policy int

const (
	// PolicyFatal returns the parse error to the caller, which stops the loop.
	PolicyFatal Policy = iota
	// PolicySkip logs the line and keeps going.
	PolicySkip
)

// Relay turns command lines into bus transfers.
type Relay struct {
	log      logger.Logger
	bus      Bus
	policy   Policy
	notifier Notifier

	lock  sync.Mutex
	state State
}

// New creates a Relay writing to bus.
func New(log logger.Logger, bus Bus, policy Policy) *Relay {
	return &Relay{
		log:    log,
		bus:    bus,
		policy: policy,
		state:  NewState(),
	}
}

// SetNotifier registers n to be told about transfers.
func (r *Relay) SetNotifier(n Notifier) {
	r.lock.Lock()
	r.notifier = n
	r.lock.Unlock()
}

// State returns a copy of the current state.
func (r *Relay) State() State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

// Process handles one input line.
func (r *Relay) Process(line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		if r.policy == PolicySkip {
			r.log.With(logger.Fields{"module": "relay"}).Warnf("skipping line: %v", err)
			return nil
		}
		return err
	}
	return r.Apply(cmd)
}

// Apply executes a parsed command.
func (r *Relay) Apply(cmd Command) error {
	r.lock.Lock()
	if cmd.Kind == KindSelect {
		r.state.Channel = cmd.Channel
		r.lock.Unlock()
		r.log.With(logger.Fields{"module": "relay"}).Debugf("channel %s selected", cmd.Channel)
		return nil
	}

	t := Transfer{Channel: r.state.Channel, Magnitude: cmd.Magnitude}
	t.Value = Encode(t.Channel, t.Magnitude)
	t.MSB, t.LSB = Split(t.Value)
	if err := r.bus.Tx(t.Bytes()); err != nil {
		r.lock.Unlock()
		return fmt.Errorf("%w: %v", ErrTransfer, err)
	}
	r.state.Last = t.Value
	notifier := r.notifier
	r.lock.Unlock()

	r.log.With(logger.Fields{"module": "relay"}).Debugf("channel %s magnitude %d -> %02X %02X", t.Channel, t.Magnitude, t.MSB, t.LSB)
	if notifier != nil {
		notifier.Transferred(t)
	}
	return nil
}
