package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryAdvanceRotates(t *testing.T) {
	h := NewHistory(2)

	copy(h.Current(), []int64{1, 2})
	h.CommitReset() // simulate an I-frame: {1,2} becomes both previous and previous2

	cur := h.BeginAdvance()
	copy(cur, []int64{3, 4})

	require.Equal(t, []int64{1, 2}, h.Previous())
	require.Equal(t, []int64{1, 2}, h.Previous2())
	require.Equal(t, []int64{3, 4}, h.Current())

	cur2 := h.BeginAdvance()
	copy(cur2, []int64{5, 6})

	require.Equal(t, []int64{3, 4}, h.Previous())
	require.Equal(t, []int64{1, 2}, h.Previous2())
	require.Equal(t, []int64{5, 6}, h.Current())
}

func TestHistoryCommitResetCollapsesBuffers(t *testing.T) {
	h := NewHistory(2)
	copy(h.Current(), []int64{7, 8})
	h.CommitReset()

	require.Equal(t, []int64{7, 8}, h.Previous())
	require.Equal(t, []int64{7, 8}, h.Previous2())
}
