// Package dose holds the voxel dose grid and converts it between the
// egs_brachy .3ddose text format and DICOM RT Dose.
package dose

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid is returned for inconsistent grid geometry or sizes
var ErrInvalidGrid = errors.New("invalid dose grid")

// Grid is a rectilinear voxel grid. Boundaries are in cm with n+1 entries per
// axis; Values and Errors are addressed by i + j*Nx + k*Nx*Ny.
type Grid struct {
	Nx, Ny, Nz int
	X, Y, Z    []float64
	Values     []float64
	Errors     []float64 // relative uncertainty per voxel, nil when absent
	Flip       [3]bool   // axis boundaries run high to low
}

// NewGrid allocates a zero grid over the given boundaries
func NewGrid(x, y, z []float64) *Grid {
	g := &Grid{
		Nx: max(len(x)-1, 0),
		Ny: max(len(y)-1, 0),
		Nz: max(len(z)-1, 0),
		X:  x,
		Y:  y,
		Z:  z,
	}
	g.Values = make([]float64, g.Len())
	return g
}

// Len is the voxel count
func (g *Grid) Len() int {
	return g.Nx * g.Ny * g.Nz
}

// Index flattens voxel coordinates
func (g *Grid) Index(i, j, k int) int {
	return i + j*g.Nx + k*g.Nx*g.Ny
}

// Validate checks sizes and that every axis is strictly monotonic, descending
// only where Flip says so
func (g *Grid) Validate() error {
	if g.Nx <= 0 || g.Ny <= 0 || g.Nz <= 0 {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidGrid, g.Nx, g.Ny, g.Nz)
	}
	axes := []struct {
		name string
		n    int
		b    []float64
	}{{"x", g.Nx, g.X}, {"y", g.Ny, g.Y}, {"z", g.Nz, g.Z}}
	for a, ax := range axes {
		if len(ax.b) != ax.n+1 {
			return fmt.Errorf("%w: %s has %d boundaries for %d voxels", ErrInvalidGrid, ax.name, len(ax.b), ax.n)
		}
		for i := 1; i < len(ax.b); i++ {
			d := ax.b[i] - ax.b[i-1]
			if g.Flip[a] {
				d = -d
			}
			if !(d > 0) {
				return fmt.Errorf("%w: %s boundaries not strictly ordered at %d", ErrInvalidGrid, ax.name, i)
			}
		}
	}
	if len(g.Values) != g.Len() {
		return fmt.Errorf("%w: %d values for %d voxels", ErrInvalidGrid, len(g.Values), g.Len())
	}
	if g.Errors != nil && len(g.Errors) != g.Len() {
		return fmt.Errorf("%w: %d errors for %d voxels", ErrInvalidGrid, len(g.Errors), g.Len())
	}
	return nil
}

// VoxelVolume returns the volume of voxel (i,j,k) in cm³
func (g *Grid) VoxelVolume(i, j, k int) float64 {
	return math.Abs((g.X[i+1] - g.X[i]) * (g.Y[j+1] - g.Y[j]) * (g.Z[k+1] - g.Z[k]))
}

// Max returns the largest dose value, 0 for an empty grid
func (g *Grid) Max() float64 {
	var m float64
	for i, v := range g.Values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Error returns the uncertainty of voxel n, 0 when the grid has none
func (g *Grid) Error(n int) float64 {
	if g.Errors == nil {
		return 0
	}
	return g.Errors[n]
}

// spacing returns the common step of b when all gaps agree within a relative tolerance
func spacing(b []float64) (float64, bool) {
	if len(b) < 2 {
		return 0, false
	}
	step := b[1] - b[0]
	for i := 2; i < len(b); i++ {
		if math.Abs((b[i]-b[i-1])-step) > 1e-6*math.Max(1, math.Abs(step)) {
			return step, false
		}
	}
	return step, true
}
