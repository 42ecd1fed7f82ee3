package filter

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topoforge/topopt/mesh"
	"github.com/topoforge/topopt/optimize"
)

func TestNewRejectsBadInputs(t *testing.T) {
	var cerr *optimize.ConfigError

	_, err := New(mesh.Grid2D(10, 10), 0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cerr))

	_, err = New(mesh.Grid2D(0, 10), 1.5)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cerr))
}

func TestBuildIsIdempotent(t *testing.T) {
	g := mesh.Grid2D(12, 7)
	a, err := New(g, 1.5)
	require.NoError(t, err)
	b, err := New(g, 1.5)
	require.NoError(t, err)

	assert.Equal(t, a.NNZ(), b.NNZ())
	assert.Equal(t, a.RowSums(), b.RowSums())
	for e1 := 0; e1 < g.NumElements(); e1++ {
		for e2 := 0; e2 < g.NumElements(); e2++ {
			if a.At(e1, e2) != b.At(e1, e2) {
				t.Fatalf("weight mismatch at (%d,%d): %v vs %v", e1, e2, a.At(e1, e2), b.At(e1, e2))
			}
		}
	}
}

func TestApplyIsReproducible(t *testing.T) {
	// Two independently built matrices must produce bit-identical filtered
	// fields: the stored weight order fixes the float summation order.
	g := mesh.Grid2D(12, 7)
	a, err := New(g, 1.5)
	require.NoError(t, err)
	b, err := New(g, 1.5)
	require.NoError(t, err)

	src := make([]float64, g.NumElements())
	for i := range src {
		src[i] = math.Sin(float64(i))
	}
	da := make([]float64, len(src))
	db := make([]float64, len(src))
	a.Apply(da, src)
	b.Apply(db, src)
	assert.Equal(t, da, db)

	a.ApplyQuotient(da, src)
	b.ApplyQuotient(db, src)
	assert.Equal(t, da, db)
}

func TestWeights(t *testing.T) {
	// radius 1.5 on a 3x1 strip: self weight 1.5, nearest neighbor 0.5,
	// next neighbor (distance 2) excluded.
	m, err := New(mesh.Grid2D(3, 1), 1.5)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, m.At(0, 0), 1e-14)
	assert.InDelta(t, 0.5, m.At(0, 1), 1e-14)
	assert.InDelta(t, 0.0, m.At(0, 2), 1e-14)
	assert.InDelta(t, 2.0, m.RowSums()[0], 1e-14)
	assert.InDelta(t, 2.5, m.RowSums()[1], 1e-14)
}

func TestApplyPreservesConstantField(t *testing.T) {
	// Averaging a constant field returns it unchanged.
	g := mesh.Grid2D(8, 5)
	m, err := New(g, 2.0)
	require.NoError(t, err)

	src := make([]float64, g.NumElements())
	dst := make([]float64, g.NumElements())
	for i := range src {
		src[i] = 0.37
	}
	m.Apply(dst, src)
	for i := range dst {
		assert.InDelta(t, 0.37, dst[i], 1e-12)
	}
}

func TestApplySpreadsImpulse(t *testing.T) {
	g := mesh.Grid2D(5, 5)
	m, err := New(g, 1.5)
	require.NoError(t, err)

	src := make([]float64, g.NumElements())
	dst := make([]float64, g.NumElements())
	center := g.ElementIndex(2, 2, 0)
	src[center] = 1

	m.Apply(dst, src)
	assert.Less(t, dst[center], 1.0, "impulse must be attenuated")
	assert.Greater(t, dst[g.ElementIndex(2, 1, 0)], 0.0, "neighbor must receive weight")
	assert.Equal(t, 0.0, dst[g.ElementIndex(0, 0, 0)], "far corner outside radius")
}

func TestApplyQuotient(t *testing.T) {
	// On a 1-element grid H = [r], Hs = [r]: Apply and ApplyQuotient agree.
	m, err := New(mesh.Grid2D(1, 1), 1.5)
	require.NoError(t, err)

	dst := make([]float64, 1)
	m.Apply(dst, []float64{2.0})
	assert.InDelta(t, 2.0, dst[0], 1e-14)
	m.ApplyQuotient(dst, []float64{2.0})
	assert.InDelta(t, 2.0, dst[0], 1e-14)
}

func Test3DFilterReachesAcrossLayers(t *testing.T) {
	g := mesh.Grid3D(3, 3, 3)
	m, err := New(g, 1.5)
	require.NoError(t, err)

	e1 := g.ElementIndex(1, 1, 1)
	e2 := g.ElementIndex(1, 1, 0)
	assert.InDelta(t, 0.5, m.At(e1, e2), 1e-14, "z-neighbor at distance 1")
	assert.Greater(t, m.NNZ(), g.NumElements())
}
