package section

import (
	"testing"

	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestGroupFoldsConsecutiveRuns(t *testing.T) {
	raw := []format.RawEncoding{
		format.RawSignedVB,
		format.RawTag8_8SVB, format.RawTag8_8SVB, format.RawTag8_8SVB,
		format.RawNull,
		format.RawTag2_3S32, format.RawTag2_3S32,
	}

	out, err := Group(raw)
	require.NoError(t, err)
	require.Equal(t, []codec.Grouped{
		{Kind: format.RawSignedVB, N: 1},
		{Kind: format.RawTag8_8SVB, N: 3},
		{Kind: format.RawNull, N: 1},
		{Kind: format.RawTag2_3S32, N: 2},
	}, out)
}

func TestGroupSplitsAtMaxWidth(t *testing.T) {
	raw := make([]format.RawEncoding, 10)
	for i := range raw {
		raw[i] = format.RawTag8_8SVB
	}

	out, err := Group(raw)
	require.NoError(t, err)
	require.Equal(t, []codec.Grouped{
		{Kind: format.RawTag8_8SVB, N: 8},
		{Kind: format.RawTag8_8SVB, N: 2},
	}, out)
}

func TestGroupBreaksOnEncodingChange(t *testing.T) {
	raw := []format.RawEncoding{format.RawTag2_3S32, format.RawTag2_3S32, format.RawTag8_4S16}

	out, err := Group(raw)
	require.NoError(t, err)
	require.Equal(t, []codec.Grouped{
		{Kind: format.RawTag2_3S32, N: 2},
		{Kind: format.RawTag8_4S16, N: 1},
	}, out)
}
