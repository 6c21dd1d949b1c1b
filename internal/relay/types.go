package relay

import "fmt"

// Channel is the base offset added to every encoded value.
type Channel uint16

const (
	ChannelA Channel = 0x9000 // ChannelA - primary output, selected at startup.
	ChannelB Channel = 0xA000 // ChannelB - secondary output.
)

func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "a"
	case ChannelB:
		return "b"
	}
	return fmt.Sprintf("0x%04X", uint16(c))
}

// Encode returns offset + 4*magnitude truncated to 16 bits. Out of range magnitudes wrap.
func Encode(c Channel, magnitude int64) uint16 {
	return uint16(int64(c) + 4*magnitude)
}

// Split returns the byte pair for v, most significant byte first.
func Split(v uint16) (msb, lsb byte) {
	return byte(v >> 8), byte(v & 0xFF)
}

// State is carried from one line to the next.
type State struct {
	Channel Channel // Channel - current offset.
	Last    uint16  // Last - last value sent, zero before the first transfer.
}

// NewState returns the startup state.
func NewState() State {
	return State{Channel: ChannelA}
}

// Transfer describes one value written to the bus.
type Transfer struct {
	Channel   Channel
	Magnitude int64
	Value     uint16 // Value - encoded 16-bit word.
	MSB       byte
	LSB       byte
}

// Bytes returns the payload as written on the bus.
func (t Transfer) Bytes() []byte {
	return []byte{t.MSB, t.LSB}
}
