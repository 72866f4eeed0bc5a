// Package event decodes the payload of an E-class body record: a one-byte
// event code followed by a small, code-specific payload (varint fields for
// most codes, a function byte plus a varint or 32-bit float for
// InFlightAdjustment, and a literal marker for EndOfLog).
package event

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/internal/varint"
)

var le = binary.LittleEndian

// endOfLogMarker is the literal trailer the reference encoder writes for
// an EndOfLog event.
var endOfLogMarker = []byte("End of log\x00")

// Code identifies the kind of event an E-frame carries.
type Code uint8

const (
	SyncBeep           Code = 0
	InFlightAdjustment Code = 13
	LoggingResume      Code = 14
	Disarm             Code = 15
	FlightMode         Code = 30
	EndOfLog           Code = 255
)

func (c Code) String() string {
	switch c {
	case SyncBeep:
		return "SyncBeep"
	case InFlightAdjustment:
		return "InFlightAdjustment"
	case LoggingResume:
		return "LoggingResume"
	case Disarm:
		return "Disarm"
	case FlightMode:
		return "FlightMode"
	case EndOfLog:
		return "EndOfLog"
	default:
		return "Unknown"
	}
}

// Payload is the decoded body of one event; its concrete type is
// determined by Event.Code.
type Payload interface {
	isEventPayload()
}

type SyncBeepPayload struct{ Time uint32 }

// InFlightAdjustmentPayload is an in-flight tuning change. The function's
// high bit selects which of IntValue/FloatValue holds the new setting;
// Function itself has that bit masked off.
type InFlightAdjustmentPayload struct {
	Function   uint8
	IsFloat    bool
	IntValue   int32
	FloatValue float32
}

type LoggingResumePayload struct {
	LoopIteration uint32
	Time          uint32
}

type DisarmPayload struct{ Reason uint32 }

type FlightModePayload struct {
	Flags     uint32
	LastFlags uint32
}

type EndOfLogPayload struct{}

func (SyncBeepPayload) isEventPayload()           {}
func (InFlightAdjustmentPayload) isEventPayload() {}
func (LoggingResumePayload) isEventPayload()      {}
func (DisarmPayload) isEventPayload()             {}
func (FlightModePayload) isEventPayload()         {}
func (EndOfLogPayload) isEventPayload()           {}

// Event is one decoded E-frame.
type Event struct {
	Code    Code
	Payload Payload
}

// Parse decodes one event from the front of data (the body record's
// leading 'E' byte already consumed by the caller) and returns the event
// together with the number of bytes consumed. An unrecognized code is a
// soft error: the caller should treat the whole frame as undecodable but
// keep reading.
func Parse(data []byte) (Event, int, error) {
	if len(data) < 1 {
		return Event{}, 0, errs.ErrIncomplete
	}

	code := Code(data[0])
	pos := 1

	switch code {
	case SyncBeep:
		t, n, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n

		return Event{Code: code, Payload: SyncBeepPayload{Time: t}}, pos, nil

	case InFlightAdjustment:
		if len(data) < pos+1 {
			return Event{}, pos, errs.ErrIncomplete
		}

		fn := data[pos]
		pos++

		if fn&0x80 != 0 {
			if len(data) < pos+4 {
				return Event{}, pos, errs.ErrIncomplete
			}

			bits := le.Uint32(data[pos : pos+4])
			pos += 4

			return Event{Code: code, Payload: InFlightAdjustmentPayload{
				Function:   fn &^ 0x80,
				IsFloat:    true,
				FloatValue: math.Float32frombits(bits),
			}}, pos, nil
		}

		v, n, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n

		return Event{Code: code, Payload: InFlightAdjustmentPayload{
			Function: fn,
			IntValue: varint.ZigZagDecode(v),
		}}, pos, nil

	case LoggingResume:
		li, n1, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n1

		t, n2, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n2

		return Event{Code: code, Payload: LoggingResumePayload{LoopIteration: li, Time: t}}, pos, nil

	case Disarm:
		reason, n, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n

		return Event{Code: code, Payload: DisarmPayload{Reason: reason}}, pos, nil

	case FlightMode:
		flags, n1, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n1

		lastFlags, n2, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return Event{}, pos, err
		}

		pos += n2

		return Event{Code: code, Payload: FlightModePayload{Flags: flags, LastFlags: lastFlags}}, pos, nil

	case EndOfLog:
		if len(data) < pos+len(endOfLogMarker) {
			return Event{}, pos, errs.ErrIncomplete
		}

		if !bytes.Equal(data[pos:pos+len(endOfLogMarker)], endOfLogMarker) {
			return Event{}, pos, errs.ErrSoftFrame
		}

		pos += len(endOfLogMarker)

		return Event{Code: code, Payload: EndOfLogPayload{}}, pos, nil

	default:
		return Event{}, pos, errs.ErrSoftFrame
	}
}
