package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jpfielding/brachy.go/pkg/compress/rle"
	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/transfer"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
	"github.com/jpfielding/brachy.go/pkg/msort"
)

// ErrEncapsulated marks compressed pixel data in a syntax other than RLE Lossless
var ErrEncapsulated = errors.New("encapsulated pixel data")

// buildCT decodes every slice, sorts by z and drops slices whose matrix size
// differs from the lowest slice
func buildCT(ctx context.Context, log *slog.Logger, files []*dicom.File) (*CT, []error) {
	var dropped []error
	slices := make([]*Slice, 0, len(files))
	for _, f := range files {
		s, err := readSlice(f)
		if err != nil {
			dropped = append(dropped, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		slices = append(slices, s)
	}
	msort.Sort(slices, func(a, b *Slice) bool { return a.Z < b.Z })

	if len(slices) == 0 {
		return &CT{}, dropped
	}
	ref := slices[0]
	kept := slices[:0]
	for _, s := range slices {
		if s.Rows != ref.Rows || s.Columns != ref.Columns {
			dropped = append(dropped, fmt.Errorf("%s: %dx%d does not match %dx%d", s.Path, s.Rows, s.Columns, ref.Rows, ref.Columns))
			continue
		}
		kept = append(kept, s)
	}
	log.DebugContext(ctx, "ct volume", slog.Int("slices", len(kept)),
		slog.Int("rows", ref.Rows), slog.Int("columns", ref.Columns))
	return &CT{Slices: kept}, dropped
}

func readSlice(f *dicom.File) (*Slice, error) {
	if math.IsNaN(f.Z) {
		return nil, errors.New("missing image position")
	}
	s := &Slice{
		Path:      f.Path,
		Z:         f.Z,
		Thickness: floatOr(f, tag.SliceThickness, 0),
		Slope:     floatOr(f, tag.RescaleSlope, 1),
		Intercept: floatOr(f, tag.RescaleIntercept, 0),
	}
	copy(s.Position[:], floats(f, tag.ImagePositionPatient))

	spacing := floats(f, tag.PixelSpacing)
	if len(spacing) < 2 {
		return nil, errors.New("missing pixel spacing")
	}
	copy(s.PixelSpacing[:], spacing)

	var ok bool
	if s.Rows, ok = integer(f, tag.Rows); !ok || s.Rows <= 0 {
		return nil, errors.New("missing rows")
	}
	if s.Columns, ok = integer(f, tag.Columns); !ok || s.Columns <= 0 {
		return nil, errors.New("missing columns")
	}

	px, ok := f.Find(tag.PixelData)
	if !ok {
		return nil, errors.New("missing pixel data")
	}
	bits := integerOr(f, tag.BitsAllocated, 16)
	signed := integerOr(f, tag.PixelRepresentation, 0) == 1

	var err error
	if px.Value == nil && len(px.Items) > 0 {
		if px, err = decodeRLE(f, px, s.Rows*s.Columns, bits); err != nil {
			return nil, err
		}
	}
	s.HU, err = decodeHU(px, s.Rows*s.Columns, bits, signed, s.Slope, s.Intercept)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// decodeRLE expands the first frame of RLE Lossless pixel data into a native attribute
func decodeRLE(f *dicom.File, px *dicom.Attribute, n, bits int) (*dicom.Attribute, error) {
	if f.Syntax != transfer.RLELossless {
		return nil, fmt.Errorf("%w: %s", ErrEncapsulated, f.Syntax.Name())
	}
	// item 0 is the basic offset table
	var frame []byte
	for _, it := range px.Items[1:] {
		frame = append(frame, it.Data...)
	}
	native, err := rle.Decode(frame, n, bits/8)
	if err != nil {
		return nil, err
	}
	return &dicom.Attribute{Tag: px.Tag, VR: vr.OW, Length: uint32(len(native)), Value: native}, nil
}

// decodeHU applies HU = raw*slope + intercept to n native samples
func decodeHU(px *dicom.Attribute, n, bits int, signed bool, slope, intercept float64) ([]float64, error) {
	if bits != 8 && bits != 16 && bits != 32 {
		return nil, fmt.Errorf("unsupported bits allocated %d", bits)
	}
	size := bits / 8
	raw := px.Value
	if len(raw) < n*size {
		return nil, fmt.Errorf("pixel data has %d bytes, need %d", len(raw), n*size)
	}
	order := px.ByteOrder()
	out := make([]float64, n)
	for i := range out {
		var v float64
		switch bits {
		case 8:
			if signed {
				v = float64(int8(raw[i]))
			} else {
				v = float64(raw[i])
			}
		case 16:
			u := order.Uint16(raw[i*2:])
			if signed {
				v = float64(int16(u))
			} else {
				v = float64(u)
			}
		case 32:
			u := order.Uint32(raw[i*4:])
			if signed {
				v = float64(int32(u))
			} else {
				v = float64(u)
			}
		}
		out[i] = v*slope + intercept
	}
	return out, nil
}

// Dims returns columns, rows and slice count
func (c *CT) Dims() (nx, ny, nz int) {
	if len(c.Slices) == 0 {
		return 0, 0, 0
	}
	return c.Slices[0].Columns, c.Slices[0].Rows, len(c.Slices)
}

// HU returns the value at column i, row j of slice k
func (c *CT) HU(i, j, k int) float64 {
	s := c.Slices[k]
	return s.HU[j*s.Columns+i]
}

// Boundaries returns voxel edges in cm. x and y are centred on the pixel
// positions of the first slice; z edges sit midway between slices, with the
// outer edges mirrored from the neighbouring gap or the slice thickness.
func (c *CT) Boundaries() (x, y, z []float64) {
	nx, ny, nz := c.Dims()
	if nz == 0 {
		return nil, nil, nil
	}
	first := c.Slices[0]
	dy, dx := first.PixelSpacing[0], first.PixelSpacing[1]

	x = make([]float64, nx+1)
	for i := range x {
		x[i] = (first.Position[0] + (float64(i)-0.5)*dx) / 10
	}
	y = make([]float64, ny+1)
	for j := range y {
		y[j] = (first.Position[1] + (float64(j)-0.5)*dy) / 10
	}

	z = make([]float64, nz+1)
	if nz == 1 {
		half := first.Thickness / 2
		if half <= 0 {
			half = 0.5
		}
		z[0], z[1] = (first.Z-half)/10, (first.Z+half)/10
		return x, y, z
	}
	for k := 1; k < nz; k++ {
		z[k] = (c.Slices[k-1].Z + c.Slices[k].Z) / 2 / 10
	}
	z[0] = (c.Slices[0].Z - (c.Slices[1].Z-c.Slices[0].Z)/2) / 10
	z[nz] = (c.Slices[nz-1].Z + (c.Slices[nz-1].Z-c.Slices[nz-2].Z)/2) / 10
	return x, y, z
}
