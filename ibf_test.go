package ibf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func idsOf(items ...string) []ID {
	out := make([]ID, len(items))
	for i, s := range items {
		out[i] = DeriveID([]byte(s))
	}
	return out
}

func buildIBF(t *testing.T, n, k int, ids ...ID) *IBF {
	t.Helper()
	f, err := New(n, k)
	require.NoError(t, err)
	for _, id := range ids {
		f.Insert(id)
	}
	return f
}

func TestNewValidatesDimensions(t *testing.T) {
	_, err := New(0, 1)
	require.ErrorIs(t, err, ErrInvalidN)

	_, err = New(8, 0)
	require.ErrorIs(t, err, ErrInvalidK)

	_, err = New(8, 9)
	require.ErrorIs(t, err, ErrInvalidK)

	f, err := New(8, 3)
	require.NoError(t, err)
	require.Equal(t, 8, f.N())
	require.Equal(t, 3, f.K())
}

// Law 1: A - A is empty, for every A.
func TestLawSelfSubtractionIsEmpty(t *testing.T) {
	a := buildIBF(t, 64, 4, idsOf("a", "b", "c")...)
	diff, err := a.Subtract(a)
	require.NoError(t, err)
	require.True(t, diff.IsEmpty())
}

// Law 2: A + (0 - A) is empty.
func TestLawAddInverseIsEmpty(t *testing.T) {
	a := buildIBF(t, 64, 4, idsOf("a", "b", "c")...)
	zero, err := New(64, 4)
	require.NoError(t, err)

	negA, err := zero.Subtract(a)
	require.NoError(t, err)

	sum, err := a.Add(negA)
	require.NoError(t, err)
	require.True(t, sum.IsEmpty())
}

// Law 3: (A + B) + C = A + (B + C).
func TestLawAddIsAssociative(t *testing.T) {
	a := buildIBF(t, 64, 4, idsOf("a")...)
	b := buildIBF(t, 64, 4, idsOf("b")...)
	c := buildIBF(t, 64, 4, idsOf("c")...)

	left, err := a.Add(b)
	require.NoError(t, err)
	left, err = left.Add(c)
	require.NoError(t, err)

	right, err := b.Add(c)
	require.NoError(t, err)
	right, err = a.Add(right)
	require.NoError(t, err)

	require.Equal(t, left.cells, right.cells)
}

// Law 4: A + B = B + A.
func TestLawAddIsCommutative(t *testing.T) {
	a := buildIBF(t, 64, 4, idsOf("a", "c")...)
	b := buildIBF(t, 64, 4, idsOf("b")...)

	ab, err := a.Add(b)
	require.NoError(t, err)
	ba, err := b.Add(a)
	require.NoError(t, err)

	require.Equal(t, ab.cells, ba.cells)
}

// Law 5: ibf(S_A) - ibf(S_B) is structurally equal to ibf(S_A\S_B) - ibf(S_B\S_A).
func TestLawSubtractionMatchesSetDifference(t *testing.T) {
	a := buildIBF(t, 64, 4, idsOf("a", "b", "c")...)
	b := buildIBF(t, 64, 4, idsOf("b", "c", "d")...)

	delta, err := a.Subtract(b)
	require.NoError(t, err)

	aOnly := buildIBF(t, 64, 4, idsOf("a")...)
	bOnly := buildIBF(t, 64, 4, idsOf("d")...)
	wantDelta, err := aOnly.Subtract(bOnly)
	require.NoError(t, err)

	require.Equal(t, wantDelta.cells, delta.cells)
}

// Law 6 + trivial/cancellation scenarios.
func TestTrivialSingleInsertRecovers(t *testing.T) {
	id0 := DeriveID([]byte("id0"))
	f := buildIBF(t, 32, 4, id0)

	it := f.RecoverInPlace()
	pc, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, id0, pc.ID)
	require.True(t, pc.Pos)

	_, ok = it.Next()
	require.False(t, ok)
	require.True(t, it.IsFullyRecovered())
}

func TestCancellationInsertThenRemove(t *testing.T) {
	f, err := New(32, 4)
	require.NoError(t, err)
	id0 := DeriveID([]byte("id0"))
	f.Insert(id0)
	f.Remove(id0)
	require.True(t, f.IsEmpty())
}

// Law 6: safe-regime recover enumerates exactly S and empties the filter.
func TestSafeRegimeFullRecovery(t *testing.T) {
	ids := idsOf("a", "b", "c", "d", "e")
	f := buildIBF(t, 64, 4, ids...)

	entries, ok := f.RecoverInPlace().Drain()
	require.True(t, ok)

	got := make(map[ID]bool, len(entries))
	for _, pc := range entries {
		require.True(t, pc.Pos)
		got[pc.ID] = true
	}
	for _, id := range ids {
		require.True(t, got[id])
	}
	require.True(t, f.IsEmpty())
}

// Law 7 + small-difference scenario: S_A={a,b,c}, S_B={b,c,d}.
func TestSmallDifferenceDecodesToPosAAndNegD(t *testing.T) {
	a := buildIBF(t, 64, 4, idsOf("a", "b", "c")...)
	b := buildIBF(t, 64, 4, idsOf("b", "c", "d")...)

	delta, err := a.Subtract(b)
	require.NoError(t, err)

	entries, ok := delta.RecoverInPlace().Drain()
	require.True(t, ok)
	require.True(t, delta.IsEmpty())
	require.Len(t, entries, 2)

	idA := DeriveID([]byte("a"))
	idD := DeriveID([]byte("d"))
	for _, pc := range entries {
		switch pc.ID {
		case idA:
			require.True(t, pc.Pos)
		case idD:
			require.False(t, pc.Pos)
		default:
			t.Fatalf("unexpected recovered id in entry %+v", pc)
		}
	}
}

// Law 8: partial recovery never emits a false positive.
func TestPartialRecoveryEmissionsAreAlwaysCorrect(t *testing.T) {
	// Overflow scenario: insert N+K IDs into a small IBF<N,K>.
	const n, k = 8, 3
	items := make([]string, n+k)
	for i := range items {
		items[i] = string(rune('a' + i))
	}
	ids := idsOf(items...)

	f := buildIBF(t, n, k, ids...)
	entries, ok := f.RecoverInPlace().Drain()
	require.False(t, ok)

	want := make(map[ID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, pc := range entries {
		require.True(t, pc.Pos)
		require.True(t, want[pc.ID])
	}
}

func TestAddSubtractDimensionMismatch(t *testing.T) {
	a, err := New(32, 4)
	require.NoError(t, err)
	b, err := New(64, 4)
	require.NoError(t, err)

	_, err = a.Add(b)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = a.Subtract(b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCloneIsIndependent(t *testing.T) {
	a := buildIBF(t, 32, 4, idsOf("a")...)
	clone := a.Clone()
	clone.Insert(DeriveID([]byte("b")))

	require.False(t, a.IsEmpty())
	_, aOk := a.RecoverInPlace().Next()
	require.True(t, aOk)
	require.NotEqual(t, a.cells, clone.cells)
}

func TestRecoverLeavesOriginalUntouched(t *testing.T) {
	a := buildIBF(t, 32, 4, idsOf("a")...)
	before := append([]Cell{}, a.cells...)

	_, ok := a.Recover().Next()
	require.True(t, ok)
	require.Equal(t, before, a.cells)
}
