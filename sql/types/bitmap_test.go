package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullBitmapWordBoundary(t *testing.T) {
	for _, length := range []int{65, 128} {
		t.Run(fmt.Sprintf("length=%d", length), func(t *testing.T) {
			require := require.New(t)
			b := NewNullBitmap(length)
			for i := 0; i < length; i++ {
				b.Set(i, false)
			}
			for _, pos := range []int{63, 64, 65} {
				if pos < length {
					b.Set(pos, true)
				}
			}
			for i := 0; i < length; i++ {
				want := i == 63 || i == 64 || i == 65
				require.Equal(want, b.IsNull(i), "row %d", i)
			}
			require.Equal(popcountExpected(length), b.CountNulls())
		})
	}
}

func popcountExpected(length int) int {
	n := 0
	for _, pos := range []int{63, 64, 65} {
		if pos < length {
			n++
		}
	}
	return n
}

func TestNullBitmapCountNulls(t *testing.T) {
	require := require.New(t)
	b := NewNullBitmap(10)
	b.Set(2, true)
	b.Set(7, true)
	require.Equal(2, b.CountNulls())
	require.False(b.IsAllNull())
}

func TestNullBitmapAllNull(t *testing.T) {
	require := require.New(t)
	b := NewAllNullBitmap(70)
	require.True(b.IsAllNull())
	require.Equal(70, b.CountNulls())
	b.Set(69, false)
	require.False(b.IsAllNull())
	require.Equal(69, b.CountNulls())
}

func TestNullBitmapBulkOps(t *testing.T) {
	require := require.New(t)
	a := NewNullBitmap(4)
	a.Set(0, true)
	a.Set(1, true)
	b := NewNullBitmap(4)
	b.Set(1, true)
	b.Set(2, true)

	and := a.And(b)
	require.Equal([]bool{false, true, false, false}, bits(and, 4))

	or := a.Or(b)
	require.Equal([]bool{true, true, true, false}, bits(or, 4))

	not := a.Not()
	require.Equal([]bool{false, false, true, true}, bits(not, 4))
}

func bits(b *NullBitmap, n int) []bool {
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = b.IsNull(i)
	}
	return out
}

func TestNullBitmapGatherByIndices(t *testing.T) {
	require := require.New(t)
	b := NewNullBitmap(3)
	b.Set(0, true)
	b.Set(1, false)
	b.Set(2, true)

	g := b.GatherByIndices([]int{2, 1, 0})
	require.Equal([]bool{true, false, true}, bits(g, 3))
}

func TestNullBitmapPush(t *testing.T) {
	require := require.New(t)
	b := NewNullBitmap(0)
	for i := 0; i < 130; i++ {
		b.Push(i%7 == 0)
	}
	require.Equal(130, b.Len())
	for i := 0; i < 130; i++ {
		require.Equal(i%7 == 0, b.IsNull(i))
	}
}
