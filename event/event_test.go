package event

import (
	"testing"

	"github.com/flightlog/blackbox/errs"
	"github.com/stretchr/testify/require"
)

func TestParseSyncBeepScenario(t *testing.T) {
	// "E 00 05": SyncBeep with time 5.
	ev, n, err := Parse([]byte{0x00, 0x05})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, SyncBeep, ev.Code)
	require.Equal(t, SyncBeepPayload{Time: 5}, ev.Payload)
}

func TestParseDisarm(t *testing.T) {
	ev, n, err := Parse([]byte{byte(Disarm), 0x02})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, DisarmPayload{Reason: 2}, ev.Payload)
}

func TestParseFlightMode(t *testing.T) {
	ev, n, err := Parse([]byte{byte(FlightMode), 0x05, 0x01})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, FlightModePayload{Flags: 5, LastFlags: 1}, ev.Payload)
}

func TestParseEndOfLog(t *testing.T) {
	data := append([]byte{byte(EndOfLog)}, []byte("End of log\x00")...)

	ev, n, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 12, n)
	require.Equal(t, EndOfLogPayload{}, ev.Payload)
}

func TestParseEndOfLogTruncatedMarker(t *testing.T) {
	data := append([]byte{byte(EndOfLog)}, []byte("End of")...)

	_, _, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrIncomplete)
}

func TestParseEndOfLogBadMarker(t *testing.T) {
	data := append([]byte{byte(EndOfLog)}, []byte("Not the marker!")...)

	_, _, err := Parse(data)
	require.ErrorIs(t, err, errs.ErrSoftFrame)
}

func TestParseInFlightAdjustmentInt(t *testing.T) {
	// function 3, zigzag-encoded value -1 -> 0x01.
	ev, n, err := Parse([]byte{byte(InFlightAdjustment), 0x03, 0x01})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, InFlightAdjustmentPayload{Function: 3, IntValue: -1}, ev.Payload)
}

func TestParseInFlightAdjustmentFloat(t *testing.T) {
	// function 5 with the high bit set, 32-bit LE float 1.5 -> 0x3FC00000.
	ev, n, err := Parse([]byte{byte(InFlightAdjustment), 0x85, 0x00, 0x00, 0xC0, 0x3F})
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, InFlightAdjustmentPayload{Function: 5, IsFloat: true, FloatValue: 1.5}, ev.Payload)
}

func TestParseUnknownCodeIsSoftError(t *testing.T) {
	_, _, err := Parse([]byte{0x63})
	require.ErrorIs(t, err, errs.ErrSoftFrame)
}

func TestParseIncomplete(t *testing.T) {
	_, _, err := Parse(nil)
	require.ErrorIs(t, err, errs.ErrIncomplete)
}
