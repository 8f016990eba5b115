package dose

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/util"
)

// MaxPixel is the stored value of the hottest voxel
const MaxPixel = 4290000000

// RTDoseStorage is the RT Dose SOP class
const RTDoseStorage = "1.2.840.10008.5.1.4.1.1.481.2"

// ConversionError names the stage where a conversion stopped. Nothing is
// written to the destination when one is returned.
type ConversionError struct {
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("dose conversion %s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Meta carries the identifiers written into an RT Dose document. Empty UIDs
// are generated, a zero Created is now, a nil Template is the embedded one.
type Meta struct {
	PatientName         string
	PatientID           string
	StudyUID            string
	SeriesUID           string
	FrameOfReferenceUID string
	SOPInstanceUID      string
	PlanUID             string
	Created             time.Time
	Template            *Template
}

// Scaling maps doses to stored pixel values so the maximum lands on MaxPixel.
// The factor is kept fractional, not truncated to an integer.
func Scaling(maxDose float64) float64 {
	if !(maxDose > 0) {
		slog.Warn("maximum dose is not positive, using unit dose scaling", "max", maxDose)
		return 1
	}
	return MaxPixel / maxDose
}

// FormatDS renders v as a decimal string of at most 16 characters
func FormatDS(v float64) string {
	for prec := 17; prec > 0; prec-- {
		s := strconv.FormatFloat(v, 'g', prec, 64)
		if len(s) <= 16 {
			return s
		}
	}
	return strconv.FormatFloat(v, 'g', 1, 64)
}

func formatAll(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = FormatDS(v)
	}
	return out
}

// ToRTDose writes g as an explicit little endian RT Dose document with
// 32-bit unsigned pixels. Boundaries in cm become positions in mm.
func ToRTDose(w io.Writer, g *Grid, meta Meta) error {
	if err := g.Validate(); err != nil {
		return &ConversionError{Stage: "validate", Err: err}
	}
	refs, err := rtdoseRefs(g, meta)
	if err != nil {
		return &ConversionError{Stage: "geometry", Err: err}
	}
	tmpl := meta.Template
	if tmpl == nil {
		if tmpl, err = DefaultTemplate(); err != nil {
			return &ConversionError{Stage: "template", Err: err}
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, refs); err != nil {
		return &ConversionError{Stage: "encode", Err: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &ConversionError{Stage: "write", Err: err}
	}
	return nil
}

func rtdoseRefs(g *Grid, meta Meta) (map[string]any, error) {
	if g.Flip[0] || g.Flip[1] {
		return nil, errors.New("descending x or y boundaries")
	}
	dx, okx := spacing(g.X)
	dy, oky := spacing(g.Y)
	if !okx || !oky {
		return nil, errors.New("x and y voxel sizes must be uniform")
	}
	if g.Nx > math.MaxUint16 || g.Ny > math.MaxUint16 {
		return nil, fmt.Errorf("%dx%d exceeds the DICOM image size", g.Nx, g.Ny)
	}

	zc := make([]float64, g.Nz)
	for k := range zc {
		zc[k] = (g.Z[k] + g.Z[k+1]) / 2 * 10
	}
	offsets := make([]float64, g.Nz)
	for k := range offsets {
		offsets[k] = zc[k] - zc[0]
	}
	thickness := ""
	if dz, ok := spacing(g.Z); ok {
		thickness = FormatDS(math.Abs(dz) * 10)
	}

	scaling := Scaling(g.Max())
	pixels := make([]byte, 4*g.Len())
	clamped := 0
	for n, v := range g.Values {
		p := math.Round(v * scaling)
		switch {
		case !(p >= 0):
			p = 0
			clamped++
		case p > math.MaxUint32:
			p = math.MaxUint32
		}
		binary.LittleEndian.PutUint32(pixels[n*4:], uint32(p))
	}
	if clamped > 0 {
		slog.Warn("negative or invalid doses stored as zero", "voxels", clamped)
	}

	uid := func(s string) string {
		if s == "" {
			return util.NewUID()
		}
		return s
	}
	created := meta.Created
	if created.IsZero() {
		created = time.Now()
	}
	return map[string]any{
		"sop_instance_uid":         uid(meta.SOPInstanceUID),
		"study_uid":                uid(meta.StudyUID),
		"series_uid":               uid(meta.SeriesUID),
		"frame_of_reference_uid":   uid(meta.FrameOfReferenceUID),
		"referenced_plan_uid":      meta.PlanUID,
		"implementation_class_uid": util.DeriveUID("brachy.go"),
		"patient_name":             meta.PatientName,
		"patient_id":               meta.PatientID,
		"content_date":             created.Format("20060102"),
		"content_time":             created.Format("150405"),
		"image_position": formatAll([]float64{
			(g.X[0] + g.X[1]) / 2 * 10,
			(g.Y[0] + g.Y[1]) / 2 * 10,
			zc[0],
		}),
		"pixel_spacing":            formatAll([]float64{dy * 10, dx * 10}),
		"slice_thickness":          thickness,
		"grid_frame_offset_vector": formatAll(offsets),
		"dose_grid_scaling":        FormatDS(1 / scaling),
		"rows":                     strconv.Itoa(g.Ny),
		"columns":                  strconv.Itoa(g.Nx),
		"frames":                   strconv.Itoa(g.Nz),
		"pixel_data":               pixels,
	}, nil
}

// FromRTDose rebuilds a grid from a parsed RT Dose file. Grid Frame Offset
// Vector may be relative (first entry 0) or absolute.
func FromRTDose(f *dicom.File) (*Grid, error) {
	g, err := fromRTDose(f)
	if err != nil {
		return nil, &ConversionError{Stage: "read rtdose", Err: err}
	}
	return g, nil
}

func fromRTDose(f *dicom.File) (*Grid, error) {
	integer := func(t tag.Tag) (int, error) {
		a, ok := f.Find(t)
		if !ok {
			return 0, fmt.Errorf("missing %s", t.Name())
		}
		v, ok := a.Int()
		if !ok {
			return 0, fmt.Errorf("bad %s %q", t.Name(), a.Text())
		}
		return v, nil
	}
	floats := func(t tag.Tag, n int) ([]float64, error) {
		a, ok := f.Find(t)
		if !ok {
			return nil, fmt.Errorf("missing %s", t.Name())
		}
		v, ok := a.Float64s()
		if !ok || len(v) < n {
			return nil, fmt.Errorf("bad %s %q", t.Name(), a.Text())
		}
		return v, nil
	}

	rows, err := integer(tag.Rows)
	if err != nil {
		return nil, err
	}
	cols, err := integer(tag.Columns)
	if err != nil {
		return nil, err
	}
	frames := 1
	if _, ok := f.Find(tag.NumberOfFrames); ok {
		if frames, err = integer(tag.NumberOfFrames); err != nil {
			return nil, err
		}
	}
	bits, err := integer(tag.BitsAllocated)
	if err != nil {
		return nil, err
	}
	if bits != 16 && bits != 32 {
		return nil, fmt.Errorf("unsupported bits allocated %d", bits)
	}
	if rows < 1 || cols < 1 || frames < 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidGrid, cols, rows, frames)
	}
	pos, err := floats(tag.ImagePositionPatient, 3)
	if err != nil {
		return nil, err
	}
	sp, err := floats(tag.PixelSpacing, 2)
	if err != nil {
		return nil, err
	}
	scale := 1.0
	if a, ok := f.Find(tag.DoseGridScaling); ok {
		if v, ok := a.Float64(); ok {
			scale = v
		}
	}
	offsets := []float64{0}
	if _, ok := f.Find(tag.GridFrameOffsetVector); ok || frames > 1 {
		if offsets, err = floats(tag.GridFrameOffsetVector, frames); err != nil {
			return nil, err
		}
	}
	thickness := sp[1]
	if a, ok := f.Find(tag.SliceThickness); ok {
		if v, ok := a.Float64(); ok && v > 0 {
			thickness = v
		}
	}

	zc := make([]float64, frames)
	for k := range zc {
		zc[k] = offsets[k]
		if offsets[0] == 0 {
			zc[k] += pos[2]
		}
	}

	g := &Grid{
		Nx: cols,
		Ny: rows,
		Nz: frames,
		X:  uniformAxis(pos[0], sp[1], cols),
		Y:  uniformAxis(pos[1], sp[0], rows),
		Z:  centerAxis(zc, thickness),
	}
	g.Flip[2] = frames > 1 && zc[1] < zc[0]

	px, ok := f.Find(tag.PixelData)
	if !ok || px.Value == nil {
		return nil, errors.New("missing native pixel data")
	}
	n := g.Len()
	g.Values = make([]float64, n)
	if bits == 16 {
		words := px.Uint16s()
		if len(words) < n {
			return nil, fmt.Errorf("%d pixels for %d voxels", len(words), n)
		}
		for i := range g.Values {
			g.Values[i] = float64(words[i]) * scale
		}
	} else {
		words := px.Uint32s()
		if len(words) < n {
			return nil, fmt.Errorf("%d pixels for %d voxels", len(words), n)
		}
		for i := range g.Values {
			g.Values[i] = float64(words[i]) * scale
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// uniformAxis returns cm boundaries for n voxels of size step mm centred from first
func uniformAxis(first, step float64, n int) []float64 {
	b := make([]float64, n+1)
	for i := range b {
		b[i] = (first + (float64(i)-0.5)*step) / 10
	}
	return b
}

// centerAxis returns cm boundaries at the midpoints between voxel centres in mm,
// mirroring the outer gaps. A single centre gets the given thickness.
func centerAxis(c []float64, thickness float64) []float64 {
	n := len(c)
	b := make([]float64, n+1)
	if n == 1 {
		b[0], b[1] = (c[0]-thickness/2)/10, (c[0]+thickness/2)/10
		return b
	}
	b[0] = c[0] - (c[1]-c[0])/2
	for k := 1; k < n; k++ {
		b[k] = (c[k-1] + c[k]) / 2
	}
	b[n] = c[n-1] + (c[n-1]-c[n-2])/2
	for k := range b {
		b[k] /= 10
	}
	return b
}
