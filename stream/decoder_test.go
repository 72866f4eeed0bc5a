package stream

import (
	"testing"

	"github.com/flightlog/blackbox/event"
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/section"
	"github.com/stretchr/testify/require"
)

func testHeader() []byte {
	lines := []string{
		"H Product:Blackbox flight data recorder by Cleanflight",
		"H Data version:2",
		"H I interval:1",
		"H P interval:1/1",
		"H P ratio:1",
		"H gyro_scale:0x3c8efa35",
		"H looptime:125",
		"H Field I name:loopIteration,time,motor[0]",
		"H Field I signed:0,0,0",
		"H Field I encoding:1,1,1",
		"H Field I predictor:0,0,0",
		"H Field P name:loopIteration,time,motor[0]",
		"H Field P signed:0,0,0",
		"H Field P encoding:1,1,1",
		"H Field P predictor:6,1,1",
		"H Field S name:flightModeFlags",
		"H Field S signed:0",
		"H Field S encoding:1",
		"H Field S predictor:0",
		"H Field G name:time,GPS_numSat,GPS_coord[0],GPS_coord[1]",
		"H Field G signed:0,0,0,0",
		"H Field G encoding:1,1,1,1",
		"H Field G predictor:10,0,7,7",
		"H Field H name:GPS_home[0],GPS_home[1]",
		"H Field H signed:0,0",
		"H Field H encoding:1,1",
		"H Field H predictor:0,0",
	}

	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}

	return buf
}

func testSchema(t *testing.T) *section.Schema {
	t.Helper()

	header := testHeader()
	schema, n, err := section.ParseHeader(append(header, 'I'))
	require.NoError(t, err)
	require.Equal(t, len(header), n)

	return schema
}

func TestDecoderWalksEveryFrameClass(t *testing.T) {
	schema := testSchema(t)

	body := []byte{
		'I', 0x00, 0x05, 0x0A, // loopIteration=0, time=5, motor[0]=10
		'P', 0x00, 0x00, 0x00, // all residuals zero: predictors carry the frame
		'S', 0x07,
		'H', 0x22, 0x38, // GPS home (34, 56)
		'G', 0x00, 0x08, 0x00, 0x00, // time residual 0, numSat 8, coords residual 0
		'E', 0x00, 0x05, // SyncBeep time 5
		0xFF, // filler
		'Z',  // unknown leading byte, skipped in lenient mode
	}

	d := NewDecoder(schema, body, format.Lenient)

	rec, err := d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordMain, rec.Kind)
	require.Equal(t, []int64{0, 5, 10}, rec.Main)

	rec, err = d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordMain, rec.Kind)
	require.Equal(t, []int64{1, 5, 10}, rec.Main) // Increment predictor -> loopIteration steps to 1

	rec, err = d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordSlow, rec.Kind)
	require.Equal(t, []int64{7}, rec.Slow)

	// The H-frame is consumed silently: no record, but it latches home
	// coordinates for the G-frame's HomeCoordinates predictor.
	rec, err = d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordGNSS, rec.Kind)
	require.Equal(t, []int64{5, 8, 34, 56}, rec.GNSS)

	rec, err = d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordEvent, rec.Kind)
	require.Equal(t, event.SyncBeep, rec.Event.Code)
	require.Equal(t, event.SyncBeepPayload{Time: 5}, rec.Event.Payload)

	rec, err = d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordNone, rec.Kind)

	require.Equal(t, len(body), d.BytesConsumed())
}

func TestDecoderTruncatedFrameYieldsRecordNone(t *testing.T) {
	schema := testSchema(t)
	body := []byte{'I', 0x00}

	d := NewDecoder(schema, body, format.Lenient)

	rec, err := d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordNone, rec.Kind)

	// Repeated calls keep reporting the same thing rather than retrying.
	rec, err = d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordNone, rec.Kind)
}

func TestDecoderStrictModeStopsAtUnknownByte(t *testing.T) {
	schema := testSchema(t)
	body := []byte{'I', 0x00, 0x05, 0x0A, 'Z'}

	d := NewDecoder(schema, body, format.Strict)

	_, err := d.Next()
	require.NoError(t, err)

	_, err = d.Next()
	require.Error(t, err)
	require.Equal(t, 4, d.BytesConsumed()) // stopped exactly at the offending byte
}

func TestDecoderLenientModeSkipsUnknownByteAndMakesProgress(t *testing.T) {
	schema := testSchema(t)
	body := []byte{'Z', 'Z', 'I', 0x00, 0x05, 0x0A}

	d := NewDecoder(schema, body, format.Lenient)

	rec, err := d.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordMain, rec.Kind)
	require.Equal(t, []int64{0, 5, 10}, rec.Main)
}
