// Package extract turns a batch of parsed DICOM files into the clinical model:
// a z-sorted CT volume in Hounsfield units, the structure set contours and the
// brachytherapy plan dwell schedule.
package extract

import "github.com/jpfielding/brachy.go/pkg/dicom/tag"

// Dataset is the extractor output. Any part may be absent.
type Dataset struct {
	CT         *CT
	Structures *StructureSet
	Plan       *Plan
	DosePaths  []string // RTDOSE files kept for the metrics stage
	OtherPaths []string
}

// Report summarizes a batch
type Report struct {
	Parsed   int
	Failed   int
	CT       int
	Struct   int
	Plan     int
	Dose     int
	Other    int
	Warnings []string
}

// Progress is reported after each file of the batch
type Progress struct {
	Done  int
	Total int
	Path  string
	Err   error
}

// Slice is one CT image
type Slice struct {
	Path         string
	Z            float64
	Position     [3]float64 // mm
	PixelSpacing [2]float64 // row spacing, column spacing in mm
	Thickness    float64
	Rows         int
	Columns      int
	Slope        float64
	Intercept    float64
	HU           []float64 // Rows*Columns, row major
}

// CT is the slice stack sorted by ascending z
type CT struct {
	Slices []*Slice
}

// Contour is one planar polygon of a structure
type Contour struct {
	Z      float64
	Type   string // CLOSED_PLANAR, POINT, ...
	Points [][3]float64
}

// Structure is one ROI of the structure set
type Structure struct {
	Number   int
	Name     string
	Type     string // RT ROI Interpreted Type
	Color    [3]int
	External bool
	Contours []Contour
}

// StructureSet keeps ROIs in file order. Lookup maps ROI number to index.
type StructureSet struct {
	Path       string
	Structures []*Structure
	Lookup     map[int]int
	Removed    int // ROIs dropped for having no contours
}

// Source is one entry of the plan source sequence
type Source struct {
	Number           int
	Isotope          string
	HalfLife         float64 // days
	AirKermaStrength float64 // U (µGy m² h⁻¹)
	Type             string
	Manufacturer     string
	Private          map[tag.Tag]string // odd group values, used for seed model matching
}

// Dwell is a stop of the source along a channel
type Dwell struct {
	Position [3]float64 // mm
	Time     float64    // s
}

// Channel is one catheter or needle of an application setup
type Channel struct {
	Setup        int
	Number       int
	SourceNumber int
	TotalTime    float64
	FinalWeight  float64
	Dwells       []Dwell
}

// Plan is the brachytherapy plan
type Plan struct {
	Path             string
	Technique        string
	Type             string
	Sources          []Source
	Channels         []*Channel
	TotalTime        float64 // s, sum of dwell times
	MaxDwellFraction float64 // largest dwell time over TotalTime
	DoseScaling      float64
}
