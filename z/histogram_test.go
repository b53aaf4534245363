package z

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogramUpdate(t *testing.T) {
	h := NewHistogramData(HistogramBounds(0, 4))
	h.Update(0)
	h.Update(3)
	h.Update(100)

	require.EqualValues(t, 3, h.Count)
	require.EqualValues(t, 0, h.Min)
	require.EqualValues(t, 100, h.Max)
	require.EqualValues(t, 103, h.Sum)
}

func TestHistogramCopyIsIndependent(t *testing.T) {
	h := NewHistogramData(HistogramBounds(0, 4))
	h.Update(1)

	cp := h.Copy()
	cp.Update(2)

	require.EqualValues(t, 1, h.Count)
	require.EqualValues(t, 2, cp.Count)
}

func TestHistogramNilIsSafe(t *testing.T) {
	var h *HistogramData
	h.Update(5)
	require.Equal(t, "", h.String())
	require.Nil(t, h.Copy())
}

func TestHistogramString(t *testing.T) {
	h := NewHistogramData(HistogramBounds(0, 2))
	h.Update(1)
	require.Contains(t, h.String(), "Histogram")
}
