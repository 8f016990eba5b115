package dose

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(n int, step float64) []float64 {
	b := make([]float64, n+1)
	for i := range b {
		b[i] = float64(i) * step
	}
	return b
}

func TestGrid_Validate(t *testing.T) {
	g := NewGrid(cube(2, 1), cube(2, 1), []float64{2, 1, 0})
	assert.ErrorIs(t, g.Validate(), ErrInvalidGrid)
	g.Flip[2] = true
	assert.NoError(t, g.Validate())
	assert.Equal(t, 1.0, g.VoxelVolume(0, 0, 1))

	g.Values = g.Values[:3]
	assert.ErrorIs(t, g.Validate(), ErrInvalidGrid)
	assert.ErrorIs(t, NewGrid(cube(1, 1), nil, cube(1, 1)).Validate(), ErrInvalidGrid)
}

func TestThreeDDose_RoundTrip(t *testing.T) {
	g := NewGrid([]float64{-1.5, -0.5, 0.5}, []float64{0, 0.25}, []float64{3, 3.1, 3.3})
	g.Values = []float64{1e-14, 2.5, 0, 1.0 / 3}
	g.Errors = []float64{0.1, 0.02, 0, 1}

	var buf bytes.Buffer
	require.NoError(t, Write3DDose(&buf, g))
	assert.True(t, strings.HasPrefix(buf.String(), "2 1 2\n-1.5 -0.5 0.5\n"))

	got, err := Read3DDose(&buf)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestRead3DDose(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errors bool
		err    bool
	}{
		{name: "no error block", input: "1 1 2\n0 1\n0 1\n0 1 2\n5 6\n"},
		{name: "error block", input: "1 1 2\n0 1\n0 1\n0 1 2\n5 6\n0.1 0.2", errors: true},
		{name: "one line", input: "1 1 2 0 1 0 1 0 1 2 5 6"},
		{name: "truncated dose", input: "1 1 2\n0 1\n0 1\n0 1 2\n5\n", err: true},
		{name: "partial error block", input: "1 1 2\n0 1\n0 1\n0 1 2\n5 6\n0.1", err: true},
		{name: "bad number", input: "1 1 2\n0 1\n0 x\n0 1 2\n5 6\n", err: true},
		{name: "zero dimension", input: "0 1 1\n0\n0 1\n0 1\n", err: true},
		{name: "unordered", input: "1 1 2\n0 1\n0 1\n0 2 1\n5 6\n", err: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Read3DDose(strings.NewReader(tc.input))
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []float64{5, 6}, g.Values)
			assert.Equal(t, tc.errors, g.Errors != nil)
		})
	}
}

func TestRead3DDose_OversizedGrid(t *testing.T) {
	for _, header := range []string{"3000000 3000000 3000000", "1e300 1 1", "70000 70000 1"} {
		_, err := Read3DDose(strings.NewReader(header + "\n0 1\n"))
		assert.ErrorIs(t, err, ErrInvalidGrid, header)
	}
}

func TestRead3DDose_DescendingAxis(t *testing.T) {
	g, err := Read3DDose(strings.NewReader("1 1 2\n0 1\n0 1\n2 1 0\n5 6\n"))
	require.NoError(t, err)
	assert.Equal(t, [3]bool{false, false, true}, g.Flip)
}

func TestScaling(t *testing.T) {
	s := Scaling(7)
	assert.Equal(t, float64(MaxPixel), math.Round(7*s))
	assert.NotEqual(t, math.Trunc(s), s)
	assert.Equal(t, 1.0, Scaling(0))
	assert.Equal(t, 1.0, Scaling(-2))
}

func TestFormatDS(t *testing.T) {
	for _, v := range []float64{1.0 / (MaxPixel / 5.0), 1.0 / 3, -123456.789012345, 1e-300, 100, 0} {
		s := FormatDS(v)
		assert.LessOrEqual(t, len(s), 16, s)
	}
	assert.Equal(t, "1.1655011655e-09", FormatDS(1.0/(MaxPixel/5.0)))
	assert.Equal(t, "100", FormatDS(100))
	assert.Equal(t, "0.5", FormatDS(0.5))
}

func parse(t *testing.T, b []byte) *dicom.File {
	t.Helper()
	f, err := dicom.Parse(context.Background(), bytes.NewReader(b))
	require.NoError(t, err)
	return f
}

func TestRTDose_RoundTrip(t *testing.T) {
	g := NewGrid(cube(2, 1), cube(2, 1), cube(2, 1))
	for i := range g.Values {
		g.Values[i] = 5.0
	}
	g.Values[3] = 1.25
	created := time.Date(2024, 3, 1, 13, 14, 15, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, ToRTDose(&buf, g, Meta{PatientName: "Doe^Jane", PatientID: "42", Created: created}))
	f := parse(t, buf.Bytes())

	assert.Equal(t, "RTDOSE", f.Modality())
	sop, ok := f.Find(tag.SOPClassUID)
	require.True(t, ok)
	assert.Equal(t, RTDoseStorage, sop.Text())
	name, _ := f.Find(tag.PatientName)
	assert.Equal(t, "Doe^Jane", name.Text())
	scaling, _ := f.Find(tag.DoseGridScaling)
	assert.LessOrEqual(t, len(scaling.Text()), 16)
	spacing, _ := f.Find(tag.PixelSpacing)
	assert.Equal(t, []string{"10", "10"}, spacing.Strings())
	offsets, _ := f.Find(tag.GridFrameOffsetVector)
	assert.Equal(t, []string{"0", "10"}, offsets.Strings())
	px, _ := f.Find(tag.PixelData)
	assert.Equal(t, uint32(MaxPixel), px.Uint32s()[0])

	// group length covers the rest of group 0002
	gl, ok := f.Find(tag.FileMetaInformationGroupLength)
	require.True(t, ok)
	metaLen := 0
	for _, a := range f.Attributes {
		if a.Tag.IsFileMeta() && a.Tag != tag.FileMetaInformationGroupLength {
			metaLen += 8 + len(a.Value)
			if a.VR.IsLongForm() {
				metaLen += 4
			}
		}
	}
	assert.Equal(t, uint32(metaLen), gl.Uint32s()[0])

	back, err := FromRTDose(f)
	require.NoError(t, err)
	require.Equal(t, g.Len(), back.Len())
	for i := range g.Values {
		assert.InDelta(t, g.Values[i], back.Values[i], 1e-6, "voxel %d", i)
	}
	for a, want := range [][]float64{g.X, g.Y, g.Z} {
		got := [][]float64{back.X, back.Y, back.Z}[a]
		assert.InDeltaSlice(t, want, got, 1e-9)
	}
}

func TestToRTDose_ZeroDose(t *testing.T) {
	g := NewGrid(cube(1, 1), cube(1, 1), cube(1, 1))
	g.Values[0] = -2
	var buf bytes.Buffer
	require.NoError(t, ToRTDose(&buf, g, Meta{}))
	f := parse(t, buf.Bytes())
	scaling, _ := f.Find(tag.DoseGridScaling)
	assert.Equal(t, "1", scaling.Text())
	px, _ := f.Find(tag.PixelData)
	assert.Equal(t, []uint32{0}, px.Uint32s())
}

func TestToRTDose_Errors(t *testing.T) {
	g := NewGrid([]float64{0, 1, 3}, cube(1, 1), cube(1, 1))
	var buf bytes.Buffer
	err := ToRTDose(&buf, g, Meta{})
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "geometry", ce.Stage)
	assert.Zero(t, buf.Len())

	g = NewGrid(cube(1, 1), cube(1, 1), cube(1, 1))
	g.Values = nil
	err = ToRTDose(&buf, g, Meta{})
	assert.ErrorIs(t, err, ErrInvalidGrid)

	tmpl, err := ParseTemplate(strings.NewReader("0010,0010 PN ref nobody\n"))
	require.NoError(t, err)
	err = ToRTDose(&buf, NewGrid(cube(1, 1), cube(1, 1), cube(1, 1)), Meta{Template: tmpl})
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "encode", ce.Stage)
	assert.Zero(t, buf.Len())
}

// rtdose builds a minimal RT Dose stream with 2 columns, 1 row and len(offsets) frames
func rtdose(t *testing.T, bits uint16, offsets []string, pixels ...uint32) *dicom.File {
	t.Helper()
	var buf bytes.Buffer
	enc := dicom.NewEncoder(&buf)
	require.NoError(t, enc.WritePreamble())
	require.NoError(t, enc.WriteString(tag.TransferSyntaxUID, vr.UI, "1.2.840.10008.1.2.1"))
	require.NoError(t, enc.WriteString(tag.Modality, vr.CS, "RTDOSE"))
	require.NoError(t, enc.WriteString(tag.ImagePositionPatient, vr.DS, "-5", "0", "10"))
	require.NoError(t, enc.WriteString(tag.NumberOfFrames, vr.IS, "2"))
	require.NoError(t, enc.WriteUint16s(tag.Rows, 1))
	require.NoError(t, enc.WriteUint16s(tag.Columns, 2))
	require.NoError(t, enc.WriteString(tag.PixelSpacing, vr.DS, "3", "4"))
	require.NoError(t, enc.WriteUint16s(tag.BitsAllocated, bits))
	if offsets != nil {
		require.NoError(t, enc.WriteString(tag.GridFrameOffsetVector, vr.DS, offsets...))
	}
	require.NoError(t, enc.WriteString(tag.DoseGridScaling, vr.DS, "0.5"))
	var raw []byte
	for _, p := range pixels {
		if bits == 16 {
			raw = binary.LittleEndian.AppendUint16(raw, uint16(p))
		} else {
			raw = binary.LittleEndian.AppendUint32(raw, p)
		}
	}
	require.NoError(t, enc.WriteElement(tag.PixelData, vr.OW, raw))
	return parse(t, buf.Bytes())
}

func TestFromRTDose_Offsets(t *testing.T) {
	wantX := []float64{-0.7, -0.3, 0.1}
	wantY := []float64{-0.15, 0.15}
	tests := []struct {
		name    string
		offsets []string
		z       []float64
		flip    bool
	}{
		{name: "relative", offsets: []string{"0", "5"}, z: []float64{0.75, 1.25, 1.75}},
		{name: "absolute", offsets: []string{"10", "15"}, z: []float64{0.75, 1.25, 1.75}},
		{name: "descending", offsets: []string{"0", "-5"}, z: []float64{1.25, 0.75, 0.25}, flip: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := FromRTDose(rtdose(t, 32, tc.offsets, 2, 4, 6, 8))
			require.NoError(t, err)
			assert.Equal(t, 2, g.Nx)
			assert.Equal(t, 1, g.Ny)
			assert.Equal(t, 2, g.Nz)
			assert.InDeltaSlice(t, wantX, g.X, 1e-12)
			assert.InDeltaSlice(t, wantY, g.Y, 1e-12)
			assert.InDeltaSlice(t, tc.z, g.Z, 1e-12)
			assert.Equal(t, tc.flip, g.Flip[2])
			assert.Equal(t, []float64{1, 2, 3, 4}, g.Values)
		})
	}
}

func TestFromRTDose_16Bit(t *testing.T) {
	g, err := FromRTDose(rtdose(t, 16, []string{"0", "5"}, 10, 20, 30, 40))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 15, 20}, g.Values)
}

func TestFromRTDose_Errors(t *testing.T) {
	var ce *ConversionError
	_, err := FromRTDose(rtdose(t, 8, []string{"0", "5"}, 1, 2, 3, 4))
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "read rtdose", ce.Stage)

	_, err = FromRTDose(rtdose(t, 32, nil, 1, 2, 3, 4))
	assert.Error(t, err)

	_, err = FromRTDose(rtdose(t, 32, []string{"0", "5"}, 1, 2))
	assert.Error(t, err)
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := DefaultTemplate()
	require.NoError(t, err)
	assert.Contains(t, tmpl.Refs(), "pixel_data")
	assert.NotContains(t, tmpl.Refs(), "group_length")

	bad := map[string]string{
		"bad tag":        "00100010 PN literal x",
		"bad vr":         "0010,0010 XX literal x",
		"bad kind":       "0010,0010 PN constant x",
		"unnamed ref":    "0010,0010 PN ref",
		"bad numeric":    "0028,0010 US numeric 70000",
		"numeric text":   "0010,0010 PN numeric 1",
		"bad delim":      "300C,0002 SQ delim open",
		"delim vr":       "300C,0002 UI delim begin",
		"unbalanced end": "FFFE,E0DD -- delim end",
		"unterminated":   "300C,0002 SQ delim begin\nFFFE,E000 -- delim item",
	}
	for name, text := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplate(strings.NewReader(text))
			assert.Error(t, err)
		})
	}
}

func TestTemplate_Execute(t *testing.T) {
	text := `# custom layout
0002,0000 UL ref     group_length
0002,0010 UI literal 1.2.840.10008.1.2.1
0008,0060 CS literal RTDOSE
0018,0050 DS ref     thickness
0028,0009 AT numeric 3004,000C
0028,0010 US ref     rows
3004,0008 FD numeric 1.5\2.5
`
	tmpl, err := ParseTemplate(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, []string{"thickness", "rows"}, tmpl.Refs())

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, map[string]any{"thickness": "2.5", "rows": "7"}))
	f := parse(t, buf.Bytes())

	gl, _ := f.Find(tag.FileMetaInformationGroupLength)
	assert.Equal(t, []uint32{8 + 20}, gl.Uint32s())
	th, _ := f.Find(tag.SliceThickness)
	assert.Equal(t, "2.5", th.Text())
	rows, _ := f.Find(tag.Rows)
	assert.Equal(t, []uint16{7}, rows.Uint16s())
	ptr, _ := f.Find(tag.New(0x0028, 0x0009))
	assert.Equal(t, []uint16{0x3004, 0x000C}, ptr.Uint16s())
	fd, _ := f.Find(tag.New(0x3004, 0x0008))
	vals, ok := fd.Float64s()
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.5}, vals)

	assert.Error(t, tmpl.Execute(&buf, map[string]any{"thickness": 2.5, "rows": "7"}))
}
