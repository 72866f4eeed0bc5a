// Package stream implements the body-record router and the pull-style
// record iterator built on top of it: given a parsed section.Schema and
// the byte stream that follows the textual header, Decoder.Next walks one
// record at a time, reconstructing absolute field values from the
// predictor-bound history in internal/predictor.
package stream

import (
	"errors"
	"strings"

	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/event"
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/internal/codec"
	"github.com/flightlog/blackbox/internal/pool"
	"github.com/flightlog/blackbox/internal/predictor"
	"github.com/flightlog/blackbox/section"
)

// Record is one decoded body record. Only the field matching Kind is
// populated.
type Record struct {
	Kind  format.RecordKind
	Class format.FrameClass

	Main []int64 // RecordMain, aligned with the schema's main field list
	GNSS []int64 // RecordGNSS, aligned with schema.GNSS.Fields
	Slow []int64 // RecordSlow, aligned with schema.Slow.Fields

	Event event.Event // RecordEvent

	LoopIteration int64
	Time          int64
}

// Decoder walks a blackbox log's body frames one record at a time.
type Decoder struct {
	schema      *section.Schema
	strictness  format.Strictness
	data        []byte
	pos         int
	truncated   bool

	mainHistory *predictor.History
	gnssHistory *predictor.History

	iBound []predictor.Bound
	pBound []predictor.Bound
	gBound []predictor.Bound

	ctx *predictor.Context
}

// NewDecoder builds a Decoder for data, the byte slice immediately
// following the textual header (see section.ParseHeader's returned
// offset). Settings such as minthrottle and vbatref are read out of the
// schema's header settings map.
func NewDecoder(schema *section.Schema, data []byte, strictness format.Strictness) *Decoder {
	ctx := &predictor.Context{
		MinThrottle:    settingInt(schema, "minthrottle"),
		VBatRef:        settingInt(schema, "vbatref"),
		MotorOutputLow: settingFirstCSVInt(schema, "motorOutput"),
	}

	return &Decoder{
		schema:      schema,
		strictness:  strictness,
		data:        data,
		mainHistory: predictor.NewHistory(len(schema.MainNames)),
		gnssHistory: predictor.NewHistory(len(schema.GNSS.Fields)),
		iBound:      predictor.BuildMain(schema.MainNames, schema.IPredictors, schema.PInterval),
		pBound:      predictor.BuildMain(schema.MainNames, schema.PPredictors, schema.PInterval),
		gBound:      predictor.BuildFromFields(schema.GNSS.Fields, schema.PInterval),
		ctx:         ctx,
	}
}

func settingInt(schema *section.Schema, key string) int64 {
	v, ok := schema.Settings[key]
	if !ok {
		return 0
	}

	var n int64
	for _, r := range v {
		if r < '0' || r > '9' {
			break
		}

		n = n*10 + int64(r-'0')
	}

	return n
}

// settingFirstCSVInt parses the leading decimal integer out of a
// comma-separated settings value such as motorOutput ("1070,2047").
func settingFirstCSVInt(schema *section.Schema, key string) int64 {
	v, ok := schema.Settings[key]
	if !ok {
		return 0
	}

	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}

	var n int64
	for _, r := range v {
		if r < '0' || r > '9' {
			break
		}

		n = n*10 + int64(r-'0')
	}

	return n
}

// BytesConsumed reports how many bytes of the body stream have been
// consumed so far, including any bytes skipped while resynchronizing.
func (d *Decoder) BytesConsumed() int { return d.pos }

// Next decodes and returns the next record. It returns a Record with
// Kind == format.RecordNone, nil when the stream is exhausted or ends
// mid-frame; it returns a non-nil error only for a fatal protocol
// violation (a runaway varint, or the declared-but-unimplemented
// Tag2_3SVariable encoding), or when Strictness is format.Strict and a
// soft decode error is hit.
func (d *Decoder) Next() (Record, error) {
	if d.truncated {
		return Record{Kind: format.RecordNone}, nil
	}

	for d.pos < len(d.data) {
		lead := d.data[d.pos]
		rest := d.data[d.pos+1:]

		switch lead {
		case 0xFF:
			d.pos++
			continue

		case 'I':
			rec, n, err := d.decodeMain(format.ClassI, rest, true)
			if handled, result, retErr := d.handleFrameResult(rec, n, err); handled {
				return result, retErr
			}

			continue

		case 'P':
			rec, n, err := d.decodeMain(format.ClassP, rest, false)
			if handled, result, retErr := d.handleFrameResult(rec, n, err); handled {
				return result, retErr
			}

			continue

		case 'G':
			rec, n, err := d.decodeGNSS(rest)
			if handled, result, retErr := d.handleFrameResult(rec, n, err); handled {
				return result, retErr
			}

			continue

		case 'S':
			rec, n, err := d.decodeSlow(rest)
			if handled, result, retErr := d.handleFrameResult(rec, n, err); handled {
				return result, retErr
			}

			continue

		case 'H':
			n, err := d.decodeHome(rest)
			if err != nil {
				if d.fatal(err) {
					return Record{}, err
				}

				if err == errs.ErrIncomplete {
					d.truncated = true
					return Record{Kind: format.RecordNone}, nil
				}

				if d.strictness == format.Strict {
					return Record{}, err
				}

				d.pos++

				continue
			}

			d.pos += 1 + n

			continue

		case 'E':
			ev, n, err := event.Parse(rest)
			rec := Record{Kind: format.RecordEvent, Event: ev}

			if handled, result, retErr := d.handleFrameResult(rec, n, err); handled {
				return result, retErr
			}

			continue

		default:
			if d.strictness == format.Strict {
				return Record{}, errs.ErrSoftFrame
			}

			d.pos++

			continue
		}
	}

	return Record{Kind: format.RecordNone}, nil
}

// fatal reports whether err must abort the iterator outright, regardless
// of strictness: a runaway varint or the unimplemented Tag2_3SVariable
// encoding both indicate the stream itself is corrupt, not just this
// frame.
func (d *Decoder) fatal(err error) bool {
	return errors.Is(err, errs.ErrVarintTooLong) || errors.Is(err, errs.ErrUnimplementedEncoding)
}

// handleFrameResult folds the common success/truncated/soft-error/fatal
// handling shared by every frame class into one place, advancing d.pos
// and returning (true, record, err) when Next should return immediately,
// or (false, _, _) when the caller's loop should retry.
func (d *Decoder) handleFrameResult(rec Record, n int, err error) (bool, Record, error) {
	if err != nil {
		if d.fatal(err) {
			return true, Record{}, err
		}

		if errors.Is(err, errs.ErrIncomplete) {
			d.truncated = true
			return true, Record{Kind: format.RecordNone}, nil
		}

		// Soft error: bad codec payload or unrecognized event code.
		if d.strictness == format.Strict {
			return true, Record{}, err
		}

		d.pos++

		return false, Record{}, nil
	}

	d.pos += 1 + n

	if rec.Kind == format.RecordMain {
		d.ctx.LastMainFrameTime = rec.Time
	}

	return true, rec, nil
}

// decodeMain decodes an I- or P-class main frame.
func (d *Decoder) decodeMain(class format.FrameClass, data []byte, keyframe bool) (Record, int, error) {
	bound := d.iBound
	grouped := d.schema.IGrouped

	if !keyframe {
		bound = d.pBound
		grouped = d.schema.PGrouped
	}

	cur := d.mainHistory.Current()
	if !keyframe {
		cur = d.mainHistory.BeginAdvance()
	}

	residuals, release := pool.GetInt64Slice(0)
	defer release()

	pos := 0
	for _, g := range grouped {
		vals, n, err := codec.Decode(g, data[pos:], residuals)
		if err != nil {
			return Record{}, pos, err
		}

		residuals = vals
		pos += n
	}

	if len(residuals) < len(bound) {
		return Record{}, pos, errs.ErrSoftFrame
	}

	// History only rotates once the whole frame has decoded, so a failed
	// frame leaves it untouched.
	cur := d.mainHistory.Current()
	if !keyframe {
		cur = d.mainHistory.BeginAdvance()
	}

	for i := range bound {
		cur[i] = bound[i].Predict(d.ctx, d.mainHistory) + residuals[i]
	}

	if keyframe {
		d.mainHistory.CommitReset()
	}

	out := make([]int64, len(cur))
	copy(out, cur)

	rec := Record{
		Kind:          format.RecordMain,
		Class:         class,
		Main:          out,
		LoopIteration: out[d.schema.LoopIterationIx],
		Time:          out[d.schema.TimeIx],
	}

	return rec, pos, nil
}

func (d *Decoder) decodeGNSS(data []byte) (Record, int, error) {
	residuals, release := pool.GetInt64Slice(0)
	defer release()

	pos := 0
	for _, g := range d.schema.GNSS.Grouped {
		vals, n, err := codec.Decode(g, data[pos:], residuals)
		if err != nil {
			return Record{}, pos, err
		}

		residuals = vals
		pos += n
	}

	if len(residuals) < len(d.gBound) {
		return Record{}, pos, errs.ErrSoftFrame
	}

	cur := d.gnssHistory.BeginAdvance()

	for i := range d.gBound {
		cur[i] = d.gBound[i].Predict(d.ctx, d.gnssHistory) + residuals[i]
	}

	out := make([]int64, len(cur))
	copy(out, cur)

	return Record{Kind: format.RecordGNSS, Class: format.ClassG, GNSS: out}, pos, nil
}

// decodeSlow decodes an S-frame. Slow fields carry no predictor: the
// codec's decoded residuals are the final values.
func (d *Decoder) decodeSlow(data []byte) (Record, int, error) {
	var out []int64

	pos := 0
	for _, g := range d.schema.Slow.Grouped {
		vals, n, err := codec.Decode(g, data[pos:], nil)
		if err != nil {
			return Record{}, pos, err
		}

		out = append(out, vals...)
		pos += n
	}

	return Record{Kind: format.RecordSlow, Class: format.ClassS, Slow: out}, pos, nil
}

// decodeHome decodes an H-frame and, when it declares exactly two fields,
// latches them as the GPS home coordinate consumed by the GNSS frames'
// HomeCoordinates predictor. H-frames never themselves surface as a
// Record; they're pure internal state.
func (d *Decoder) decodeHome(data []byte) (int, error) {
	out, release := pool.GetInt64Slice(0)
	defer release()

	pos := 0
	for _, g := range d.schema.Home.Grouped {
		vals, n, err := codec.Decode(g, data[pos:], out)
		if err != nil {
			return pos, err
		}

		out = vals
		pos += n
	}

	if len(d.schema.Home.Fields) == 2 && len(out) >= 2 {
		d.ctx.SetHome(out[0], out[1])
	}

	return pos, nil
}
