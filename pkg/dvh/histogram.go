// Package dvh computes cumulative dose volume histograms and the dose and
// volume metrics read from them.
package dvh

import (
	"errors"
	"fmt"

	"github.com/jpfielding/brachy.go/pkg/dose"
	"github.com/jpfielding/brachy.go/pkg/msort"
	"gonum.org/v1/gonum/stat"
)

// AllVoxels disables the label filter
const AllVoxels = -1

// ErrNoVoxels is returned when no voxel carries the requested label
var ErrNoVoxels = errors.New("no voxels in structure")

// Point pairs a voxel dose with the volume of every voxel at that dose or higher
type Point struct {
	Dose   float64
	Volume float64 // cm³, cumulative once the histogram is built
}

// Histogram is sorted by descending dose with cumulative volume
type Histogram struct {
	Points      []Point
	Voxels      int
	TotalVolume float64
	MeanDose    float64 // volume weighted
	MeanError   float64 // volume weighted
	MinDose     float64
	MinError    float64 // error of the min dose voxel
	MaxDose     float64
	MaxDoseErr  float64 // error of the max dose voxel
	MaxError    float64
}

// Compute builds the histogram of every voxel whose label equals label.
// labels may be nil only with AllVoxels.
func Compute(g *dose.Grid, labels []int, label int) (*Histogram, error) {
	if label != AllVoxels && len(labels) != g.Len() {
		return nil, fmt.Errorf("%d labels for %d voxels", len(labels), g.Len())
	}

	h := &Histogram{}
	var doses, errs, vols []float64
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				n := g.Index(i, j, k)
				if label != AllVoxels && labels[n] != label {
					continue
				}
				d, e, v := g.Values[n], g.Error(n), g.VoxelVolume(i, j, k)
				if h.Voxels == 0 {
					h.MinDose, h.MinError = d, e
					h.MaxDose, h.MaxDoseErr = d, e
				}
				// ties go to the larger error
				if d < h.MinDose || (d == h.MinDose && e > h.MinError) {
					h.MinDose, h.MinError = d, e
				}
				if d > h.MaxDose || (d == h.MaxDose && e > h.MaxDoseErr) {
					h.MaxDose, h.MaxDoseErr = d, e
				}
				h.MaxError = max(h.MaxError, e)
				h.Voxels++
				h.TotalVolume += v
				doses = append(doses, d)
				errs = append(errs, e)
				vols = append(vols, v)
				h.Points = append(h.Points, Point{Dose: d, Volume: v})
			}
		}
	}
	if h.Voxels == 0 {
		return nil, ErrNoVoxels
	}
	if h.TotalVolume > 0 {
		h.MeanDose = stat.Mean(doses, vols)
		h.MeanError = stat.Mean(errs, vols)
	}

	msort.Sort(h.Points, func(a, b Point) bool { return a.Dose > b.Dose })
	for i := 1; i < len(h.Points); i++ {
		h.Points[i].Volume += h.Points[i-1].Volume
	}
	return h, nil
}
