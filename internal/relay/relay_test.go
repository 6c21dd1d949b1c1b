package relay

import (
	"errors"
	"strings"
	"testing"

	"dacrelay/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordBus struct {
	writes [][]byte
	err    error
}

func (b *recordBus) Tx(w []byte) error {
	if b.err != nil {
		return b.err
	}
	b.writes = append(b.writes, append([]byte(nil), w...))
	return nil
}

func run(t *testing.T, r *Relay, lines ...string) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, r.Process(l))
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"a", Command{Kind: KindSelect, Channel: ChannelA}},
		{"b\n", Command{Kind: KindSelect, Channel: ChannelB}},
		{"a \t\r\n", Command{Kind: KindSelect, Channel: ChannelA}},
		{"5\n", Command{Kind: KindMagnitude, Magnitude: 5}},
		{"-3", Command{Kind: KindMagnitude, Magnitude: -3}},
		{"+7", Command{Kind: KindMagnitude, Magnitude: 7}},
		{"0", Command{Kind: KindMagnitude}},
		{" 5", Command{Kind: KindMagnitude, Magnitude: 5}},
		{"\t-3", Command{Kind: KindMagnitude, Magnitude: -3}},
		{"  \t7\n", Command{Kind: KindMagnitude, Magnitude: 7}},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}

	for _, line := range []string{"x", "", "\n", "A", "B", " a", "1.5", "0x10", "99999999999999999999", " b", "\t", "- 3"} {
		_, err := ParseCommand(line)
		assert.True(t, errors.Is(err, ErrMalformedCommand), "%q", line)
	}
}

func TestParseCommandLineTooLong(t *testing.T) {
	_, err := ParseCommand("5" + strings.Repeat(" ", MaxLineLength))
	assert.True(t, errors.Is(err, ErrMalformedCommand))

	got, err := ParseCommand("5" + strings.Repeat(" ", MaxLineLength-1))
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Magnitude)
}

func TestRelayLeadingWhitespace(t *testing.T) {
	bus := &recordBus{}
	r := New(logger.Discard(), bus, PolicyFatal)
	run(t, r, " 5", "b", "\t10\n")
	assert.Equal(t, [][]byte{{0x90, 0x14}, {0xA0, 0x28}}, bus.writes)

	err := r.Process(" a")
	assert.True(t, errors.Is(err, ErrMalformedCommand))
}

func TestEncode(t *testing.T) {
	assert.Equal(t, uint16(0x9014), Encode(ChannelA, 5))
	assert.Equal(t, uint16(0xA028), Encode(ChannelB, 10))
	assert.Equal(t, uint16(0x9000), Encode(ChannelA, 0))
	// no clamping, values wrap at 16 bits
	assert.Equal(t, uint16(0x8FFC), Encode(ChannelA, -1))
	assert.Equal(t, uint16(0x0000), Encode(ChannelA, 0x1C00))
	assert.Equal(t, uint16(0x0004), Encode(ChannelB, 0x1801))

	for m := int64(-2000); m <= 2000; m += 37 {
		for _, c := range []Channel{ChannelA, ChannelB} {
			v := Encode(c, m)
			assert.Equal(t, uint16(int(c)+4*int(m)), v)
			msb, lsb := Split(v)
			assert.Equal(t, byte(v>>8), msb)
			assert.Equal(t, byte(v&0xFF), lsb)
		}
	}
}

func TestRelayScenarios(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  [][]byte
	}{
		{"select a", []string{"a", "5"}, [][]byte{{0x90, 0x14}}},
		{"select b", []string{"b", "10"}, [][]byte{{0xA0, 0x28}}},
		{"default a", []string{"5", "a", "1"}, [][]byte{{0x90, 0x14}, {0x90, 0x04}}},
		{"persist", []string{"b", "1", "2", "a", "3"}, [][]byte{{0xA0, 0x04}, {0xA0, 0x08}, {0x90, 0x0C}}},
		{"repeat", []string{"7", "7"}, [][]byte{{0x90, 0x1C}, {0x90, 0x1C}}},
		{"select only", []string{"a", "b", "a"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recordBus{}
			r := New(logger.Discard(), bus, PolicyFatal)
			run(t, r, tt.lines...)
			assert.Equal(t, tt.want, bus.writes)
		})
	}
}

func TestRelayDefaultState(t *testing.T) {
	r := New(logger.Discard(), &recordBus{}, PolicyFatal)
	assert.Equal(t, State{Channel: ChannelA}, r.State())

	run(t, r, "b", "10")
	assert.Equal(t, State{Channel: ChannelB, Last: 0xA028}, r.State())
}

func TestRelayMalformedFatal(t *testing.T) {
	bus := &recordBus{}
	r := New(logger.Discard(), bus, PolicyFatal)
	run(t, r, "1")

	err := r.Process("x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedCommand))
	assert.Len(t, bus.writes, 1)

	err = r.Process("")
	assert.True(t, errors.Is(err, ErrMalformedCommand))
	assert.Len(t, bus.writes, 1)
}

func TestRelayMalformedSkip(t *testing.T) {
	bus := &recordBus{}
	r := New(logger.Discard(), bus, PolicySkip)
	run(t, r, "b", "x", "", "1")
	assert.Equal(t, [][]byte{{0xA0, 0x04}}, bus.writes)
}

func TestRelayTransferError(t *testing.T) {
	bus := &recordBus{err: errors.New("no device")}
	r := New(logger.Discard(), bus, PolicySkip)
	err := r.Process("1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransfer))
	assert.Equal(t, uint16(0), r.State().Last)
}

func TestRelayNotifier(t *testing.T) {
	var got []Transfer
	r := New(logger.Discard(), &recordBus{}, PolicyFatal)
	r.SetNotifier(NotifierFunc(func(t Transfer) { got = append(got, t) }))
	run(t, r, "b", "10", "a")

	require.Len(t, got, 1)
	assert.Equal(t, Transfer{Channel: ChannelB, Magnitude: 10, Value: 0xA028, MSB: 0xA0, LSB: 0x28}, got[0])
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "a", ChannelA.String())
	assert.Equal(t, "b", ChannelB.String())
	assert.Equal(t, "0x1234", Channel(0x1234).String())
}
