package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topoforge/topopt/optimize"
)

func TestGridCounts2D(t *testing.T) {
	g := Grid2D(60, 30)
	require.NoError(t, g.Validate())

	assert.False(t, g.Is3D())
	assert.Equal(t, 1800, g.NumElements())
	assert.Equal(t, 61*31, g.NumNodes())
	assert.Equal(t, 2, g.DOFsPerNode())
	assert.Equal(t, 2*61*31, g.NumDOFs())
	assert.Equal(t, 8, g.DOFsPerElement())
}

func TestGridCounts3D(t *testing.T) {
	g := Grid3D(4, 3, 2)
	require.NoError(t, g.Validate())

	assert.True(t, g.Is3D())
	assert.Equal(t, 24, g.NumElements())
	assert.Equal(t, 5*4*3, g.NumNodes())
	assert.Equal(t, 3, g.DOFsPerNode())
	assert.Equal(t, 3*5*4*3, g.NumDOFs())
	assert.Equal(t, 24, g.DOFsPerElement())
}

func TestGridValidate(t *testing.T) {
	cases := []struct {
		name string
		g    Grid
	}{
		{"zero nelx", Grid{Nelx: 0, Nely: 10, Nelz: 1}},
		{"negative nely", Grid{Nelx: 10, Nely: -1, Nelz: 1}},
		{"zero nelz", Grid{Nelx: 10, Nely: 10, Nelz: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.Validate()
			require.Error(t, err)
			var cerr *optimize.ConfigError
			assert.True(t, errors.As(err, &cerr))
		})
	}
}

func TestElementIndex(t *testing.T) {
	g2 := Grid2D(4, 3)
	assert.Equal(t, 0, g2.ElementIndex(0, 0, 0))
	assert.Equal(t, 3, g2.ElementIndex(1, 0, 5)) // ez ignored in 2D
	assert.Equal(t, 4*3-1, g2.ElementIndex(3, 2, 0))

	g3 := Grid3D(4, 3, 2)
	assert.Equal(t, 0, g3.ElementIndex(0, 0, 0))
	assert.Equal(t, 12, g3.ElementIndex(0, 0, 1))
	assert.Equal(t, 4*3*2-1, g3.ElementIndex(3, 2, 1))
}
