package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesUseKindAsCellValue(t *testing.T) {
	for k := KindI; k <= KindZ; k++ {
		cells := 0
		for _, row := range Template(k) {
			for _, v := range row {
				if v != Empty {
					assert.Equal(t, Cell(k), v, "kind %s", k)
					cells++
				}
			}
		}
		assert.Equal(t, 4, cells, "kind %s should have 4 cells", k)
	}
}

func TestTemplateReturnsCopy(t *testing.T) {
	s := Template(KindT)
	s[0][0] = 9
	assert.Equal(t, Empty, Template(KindT)[0][0])
}

func TestTemplateInvalidKindPanics(t *testing.T) {
	assert.Panics(t, func() { Template(0) })
	assert.Panics(t, func() { Template(KindZ + 1) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "I", KindI.String())
	assert.Equal(t, "Z", KindZ.String())
	assert.Equal(t, "?", Kind(0).String())
}

func TestRotatedClockwise(t *testing.T) {
	got := Template(KindT).Rotated()
	expected := Shape{{6, 0}, {6, 6}, {6, 0}}
	assert.True(t, got.Equal(expected), "got %v", got)
}

func TestRotationCycles(t *testing.T) {
	o := Template(KindO)
	assert.True(t, o.Rotated().Equal(o), "O rotation should be idempotent")

	for k := KindI; k <= KindZ; k++ {
		s := Template(k)
		r := s
		for range 4 {
			r = r.Rotated()
		}
		assert.True(t, r.Equal(s), "four rotations of %s should restore it", k)
	}

	i := Template(KindI).Rotated()
	assert.Equal(t, 1, i.Width())
	assert.Equal(t, 4, i.Height())
}

func TestRotatedLeavesReceiver(t *testing.T) {
	s := Template(KindL)
	before := s.Clone()
	_ = s.Rotated()
	assert.True(t, s.Equal(before))
}

func TestNewPieceSpawnsCentred(t *testing.T) {
	tests := []struct {
		kind Kind
		x    int
	}{
		{KindI, 3},
		{KindO, 4},
		{KindT, 4},
	}
	for _, tc := range tests {
		p := NewPiece(tc.kind)
		assert.Equal(t, tc.x, p.X, "kind %s", tc.kind)
		assert.Equal(t, 0, p.Y)
	}
}

func TestPieceClone(t *testing.T) {
	var nilPiece *Piece
	assert.Nil(t, nilPiece.Clone())

	p := NewPiece(KindS)
	c := p.Clone()
	c.Shape[0][1] = 0
	c.X++
	assert.Equal(t, Cell(KindS), p.Shape[0][1])
	assert.NotEqual(t, p.X, c.X)
}

func TestFactoryIsDeterministic(t *testing.T) {
	a, b := NewFactory(42), NewFactory(42)
	for range 50 {
		require.Equal(t, a.Random().Kind, b.Random().Kind)
	}
}

func TestFactoryStats(t *testing.T) {
	f := NewFactory(7)
	seen := map[Kind]int{}
	for range 200 {
		p := f.Random()
		require.True(t, p.Kind.Valid())
		seen[p.Kind]++
	}

	st := f.Stats()
	assert.Equal(t, 200, st.Total())
	counts := st.Counts()
	sum := 0
	for k := KindI; k <= KindZ; k++ {
		assert.Equal(t, seen[k], st.Count(k))
		assert.Equal(t, seen[k], counts[k])
		sum += counts[k]
	}
	assert.Equal(t, 200, sum)
	assert.Len(t, seen, KindCount, "200 uniform draws should hit every kind")
}
