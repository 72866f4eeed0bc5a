package blackbox

import (
	"testing"

	"github.com/flightlog/blackbox/format"
	"github.com/stretchr/testify/require"
)

func testLog() []byte {
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
	}

	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}

	buf = append(buf, 'I', 0x00, 0x05, 0x0A)
	buf = append(buf, 'P', 0x00, 0x00, 0x00)

	return buf
}

func TestReaderDecodesEveryRecord(t *testing.T) {
	r, err := NewReader(testLog())
	require.NoError(t, err)
	require.Equal(t, "Blackbox flight data recorder by Cleanflight", r.Schema().Product)

	rec, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordMain, rec.Kind)
	require.Equal(t, []int64{0, 5, 10}, rec.Main)

	rec, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordMain, rec.Kind)
	require.Equal(t, []int64{1, 5, 10}, rec.Main)

	rec, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, format.RecordNone, rec.Kind)
}

func TestReaderWithStrictness(t *testing.T) {
	data := append(testLog(), 'Z')

	r, err := NewReader(data, WithStrictness(format.Strict))
	require.NoError(t, err)

	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
}

func TestReaderRejectsMalformedHeader(t *testing.T) {
	_, err := NewReader([]byte("not a blackbox log at all"))
	require.Error(t, err)
}
