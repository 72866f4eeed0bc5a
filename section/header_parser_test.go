package section

import (
	"bytes"
	"testing"

	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/format"
	"github.com/stretchr/testify/require"
)

func sampleHeader() []byte {
	lines := []string{
		"H Product:Blackbox flight data recorder by Cleanflight",
		"H Data version:2",
		"H I interval:1",
		"H P interval:2/1",
		"H P ratio:1",
		"H gyro_scale:0x3c8efa35",
		"H looptime:125",
		"H minthrottle:1070",
		"H Field I name:loopIteration,time,motor[0]",
		"H Field I signed:0,0,0",
		"H Field I encoding:1,1,1",
		"H Field I predictor:0,0,5",
		"H Field P name:loopIteration,time,motor[0]",
		"H Field P signed:0,0,0",
		"H Field P encoding:0,0,0",
		"H Field P predictor:1,6,5",
		"H Field S name:flightModeFlags,stateFlags",
		"H Field S signed:0,0",
		"H Field S encoding:1,1",
		"H Field S predictor:0,0",
		"H Field G name:time,GPS_numSat,GPS_coord[0],GPS_coord[1]",
		"H Field G signed:0,0,1,1",
		"H Field G encoding:1,1,0,0",
		"H Field G predictor:0,0,7,7",
	}

	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}

	buf = append(buf, 'I') // first body frame, terminates header scanning
	return buf
}

func TestParseHeaderScalarKeys(t *testing.T) {
	data := sampleHeader()
	s, n, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, len(data)-1, n) // everything but the trailing 'I'

	require.Equal(t, "Blackbox flight data recorder by Cleanflight", s.Product)
	require.Equal(t, "2", s.DataVersion)
	require.Equal(t, 1, s.IInterval)
	require.Equal(t, Ratio{Num: 2, Den: 1}, s.PInterval)
	require.Equal(t, uint16(1), s.PRatio)
	require.Equal(t, "1070", s.Settings["minthrottle"])
}

func TestParseHeaderMainFields(t *testing.T) {
	s, _, err := ParseHeader(sampleHeader())
	require.NoError(t, err)

	require.Equal(t, []string{"loopIteration", "time", "motor[0]"}, s.MainNames)
	require.Equal(t, 0, s.LoopIterationIx)
	require.Equal(t, 1, s.TimeIx)

	require.Equal(t, []format.RawEncoding{format.RawUnsignedVB, format.RawUnsignedVB, format.RawUnsignedVB}, s.IRawEnc)
	require.Equal(t, []format.Predictor{format.PredictNone, format.PredictNone, format.PredictMotor0}, s.IPredictors)

	require.Equal(t, []format.RawEncoding{format.RawSignedVB, format.RawSignedVB, format.RawSignedVB}, s.PRawEnc)
	require.Equal(t, []format.Predictor{format.PredictPrevious, format.PredictIncrement, format.PredictMotor0}, s.PPredictors)
}

func TestParseHeaderSlowAndGNSS(t *testing.T) {
	s, _, err := ParseHeader(sampleHeader())
	require.NoError(t, err)

	require.Equal(t, []string{"flightModeFlags", "stateFlags"}, fieldNames(s.Slow.Fields))
	require.Equal(t, []string{"time", "GPS_numSat", "GPS_coord[0]", "GPS_coord[1]"}, fieldNames(s.GNSS.Fields))
	require.Equal(t, format.PredictHomeCoordinates, s.GNSS.Fields[2].Predictor)
}

func TestParseHeaderFieldCountMismatchIsError(t *testing.T) {
	data := []byte(
		"H Product:Blackbox flight data recorder by Cleanflight\n" +
			"H Data version:2\n" +
			"H I interval:1\n" +
			"H P interval:1/1\n" +
			"H gyro_scale:0x3c8efa35\n" +
			"H looptime:125\n" +
			"H Field I name:loopIteration,time\n" +
			"H Field I signed:0,0\n" +
			"H Field I encoding:1,1\n" +
			"H Field I predictor:0,0\n" +
			"H Field P name:loopIteration\n" +
			"H Field P signed:0\n" +
			"H Field P encoding:0\n" +
			"H Field P predictor:1\n")

	_, _, err := ParseHeader(data)
	require.ErrorIs(t, err, errs.ErrFieldCountMismatch)
}

func TestParseHeaderMissingRequiredKeyIsError(t *testing.T) {
	for _, key := range []string{"Product", "Data version", "I interval", "P interval", "gyro_scale", "looptime"} {
		data := sampleHeader()

		line := []byte("H " + key + ":")
		start := bytes.Index(data, line)
		require.Greaterf(t, start, -1, "fixture should declare %q", key)

		end := bytes.IndexByte(data[start:], '\n') + start
		without := append(append([]byte{}, data[:start]...), data[end+1:]...)

		_, _, err := ParseHeader(without)
		require.ErrorIsf(t, err, errs.ErrMissingRequiredKey, "missing %q", key)
	}
}

func TestParseRatioBareDenominator(t *testing.T) {
	r, err := parseRatio("8")
	require.NoError(t, err)
	require.Equal(t, Ratio{Num: 1, Den: 8}, r)
}

func fieldNames(fields []FieldDescriptor) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	return names
}
