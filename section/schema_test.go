package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaChecksumStableAndSensitive(t *testing.T) {
	data := sampleHeader()

	s1, _, err := ParseHeader(data)
	require.NoError(t, err)

	s2, _, err := ParseHeader(data)
	require.NoError(t, err)

	require.Equal(t, s1.Checksum(), s2.Checksum())

	s2.IPredictors[0] = s2.IPredictors[0] + 1
	require.NotEqual(t, s1.Checksum(), s2.Checksum())
}
