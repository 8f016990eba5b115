package extract

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfielding/brachy.go/pkg/compress/rle"
	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/transfer"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDICOM encodes an explicit little endian file into dir
func writeDICOM(t *testing.T, dir, name string, body func(e *dicom.Encoder) error) string {
	t.Helper()
	var buf bytes.Buffer
	enc := dicom.NewEncoder(&buf)
	require.NoError(t, enc.WritePreamble())
	require.NoError(t, enc.WriteString(tag.TransferSyntaxUID, vr.UI, string(transfer.ExplicitVRLittleEndian)))
	require.NoError(t, body(enc))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// sequence writes one undefined length sequence, one item per body
func sequence(e *dicom.Encoder, t tag.Tag, bodies ...func() error) error {
	if err := e.BeginSequence(t); err != nil {
		return err
	}
	for _, body := range bodies {
		if err := e.BeginItem(); err != nil {
			return err
		}
		if err := body(); err != nil {
			return err
		}
		if err := e.EndItem(); err != nil {
			return err
		}
	}
	return e.EndSequence()
}

func all(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func ctSlice(z float64, raw ...int16) func(e *dicom.Encoder) error {
	return func(e *dicom.Encoder) error {
		px := make([]byte, len(raw)*2)
		for i, v := range raw {
			binary.LittleEndian.PutUint16(px[i*2:], uint16(v))
		}
		return all(
			e.WriteString(tag.Modality, vr.CS, "CT"),
			e.WriteString(tag.SliceThickness, vr.DS, "2.5"),
			e.WriteString(tag.ImagePositionPatient, vr.DS, "-10", "-20", fmt.Sprint(z)),
			e.WriteUint16s(tag.Rows, 2),
			e.WriteUint16s(tag.Columns, 2),
			e.WriteString(tag.PixelSpacing, vr.DS, "0.5", "0.25"),
			e.WriteUint16s(tag.BitsAllocated, 16),
			e.WriteUint16s(tag.PixelRepresentation, 1),
			e.WriteString(tag.RescaleIntercept, vr.DS, "-1024"),
			e.WriteString(tag.RescaleSlope, vr.DS, "2"),
			e.WriteElement(tag.PixelData, vr.OW, px),
		)
	}
}

func roi(e *dicom.Encoder, number, name string) func() error {
	return func() error {
		return all(
			e.WriteString(tag.ROINumber, vr.IS, number),
			e.WriteString(tag.ROIName, vr.LO, name),
		)
	}
}

func observation(e *dicom.Encoder, number, kind string) func() error {
	return func() error {
		return all(
			e.WriteString(tag.ReferencedROINumber, vr.IS, number),
			e.WriteString(tag.RTROIInterpretedType, vr.CS, kind),
		)
	}
}

func roiContour(e *dicom.Encoder, number string, contours ...[]string) func() error {
	return func() error {
		var bodies []func() error
		for _, pts := range contours {
			bodies = append(bodies, func() error {
				return all(
					e.WriteString(tag.ContourGeometricType, vr.CS, "CLOSED_PLANAR"),
					e.WriteString(tag.NumberOfContourPoints, vr.IS, fmt.Sprint(len(pts)/3)),
					e.WriteString(tag.ContourData, vr.DS, pts...),
				)
			})
		}
		return all(
			e.WriteString(tag.ROIDisplayColor, vr.IS, "255", "0", "128"),
			sequence(e, tag.ContourSequence, bodies...),
			e.WriteString(tag.ReferencedROINumber, vr.IS, number),
		)
	}
}

func structureSet(e *dicom.Encoder) error {
	return all(
		e.WriteString(tag.Modality, vr.CS, "RTSTRUCT"),
		sequence(e, tag.StructureSetROISequence,
			roi(e, "1", "Body"),
			roi(e, "2", "Applicator 1"),
			roi(e, "3", "PTV"),
		),
		sequence(e, tag.ROIContourSequence,
			roiContour(e, "1",
				[]string{"0", "0", "2.5", "10", "0", "2.5", "10", "10", "2.5"},
				[]string{"0", "0", "5", "10", "0", "5", "10", "10", "5"},
			),
			roiContour(e, "2", []string{"1", "1", "2.5"}),
			roiContour(e, "3"),
		),
		sequence(e, tag.RTROIObservationsSequence,
			observation(e, "1", "EXTERNAL"),
			observation(e, "2", "BRACHY_CHANNEL"),
			observation(e, "3", "PTV"),
		),
	)
}

func controlPointItem(e *dicom.Encoder, index, weight string) func() error {
	return func() error {
		return all(
			e.WriteString(tag.ControlPointIndex, vr.IS, index),
			e.WriteString(tag.ControlPoint3DPosition, vr.DS, "1", "2", "3"),
			e.WriteString(tag.CumulativeTimeWeight, vr.DS, weight),
		)
	}
}

func hdrPlan(e *dicom.Encoder) error {
	return all(
		e.WriteString(tag.Modality, vr.CS, "RTPLAN"),
		e.WriteString(tag.BrachyTreatmentTechnique, vr.CS, "INTERSTITIAL"),
		e.WriteString(tag.BrachyTreatmentType, vr.CS, "HDR"),
		sequence(e, tag.SourceSequence, func() error {
			return all(
				e.WriteString(tag.SourceNumber, vr.IS, "1"),
				e.WriteString(tag.SourceType, vr.CS, "LINE"),
				e.WriteString(tag.SourceManufacturer, vr.LO, "Acme"),
				e.WriteString(tag.SourceIsotopeName, vr.LO, "Ir-192"),
				e.WriteString(tag.SourceIsotopeHalfLife, vr.DS, "73.83"),
				e.WriteString(tag.ReferenceAirKermaRate, vr.DS, "40000"),
				e.WriteString(tag.New(0x300B, 0x1010), vr.LO, "mHDR-v2"),
			)
		}),
		sequence(e, tag.ApplicationSetupSequence, func() error {
			return all(
				e.WriteString(tag.ApplicationSetupNumber, vr.IS, "1"),
				sequence(e, tag.ChannelSequence, func() error {
					return all(
						e.WriteString(tag.ChannelNumber, vr.IS, "1"),
						e.WriteString(tag.ChannelTotalTime, vr.DS, "100"),
						e.WriteString(tag.FinalCumulativeTimeWeight, vr.DS, "1"),
						sequence(e, tag.BrachyControlPointSequence,
							controlPointItem(e, "0", "0"),
							controlPointItem(e, "1", "0.5"),
							controlPointItem(e, "2", "1"),
						),
						e.WriteString(tag.ReferencedSourceNumber, vr.IS, "1"),
					)
				}),
			)
		}),
	)
}

func TestExtract_Batch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDICOM(t, dir, "ct_3.dcm", ctSlice(10, 0, 1, 2, 3)),
		writeDICOM(t, dir, "ct_1.dcm", ctSlice(-5, 10, 11, 12, 13)),
		writeDICOM(t, dir, "ct_2.dcm", ctSlice(2.5, -1, -2, -3, -4)),
		writeDICOM(t, dir, "rs.dcm", structureSet),
		writeDICOM(t, dir, "rp.dcm", hdrPlan),
		writeDICOM(t, dir, "rd.dcm", func(e *dicom.Encoder) error {
			return e.WriteString(tag.Modality, vr.CS, "RTDOSE")
		}),
		writeDICOM(t, dir, "mr.dcm", func(e *dicom.Encoder) error {
			return e.WriteString(tag.Modality, vr.CS, "MR")
		}),
	}
	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("not a dicom file"), 0o644))
	paths = append(paths, bad)

	var progress []Progress
	ds, rep, err := Extract(context.Background(), paths, WithProgress(func(p Progress) {
		progress = append(progress, p)
	}))
	require.NoError(t, err)

	assert.Equal(t, 7, rep.Parsed)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 3, rep.CT)
	assert.Equal(t, 1, rep.Struct)
	assert.Equal(t, 1, rep.Plan)
	assert.Equal(t, 1, rep.Dose)
	assert.Equal(t, 1, rep.Other)
	assert.Equal(t, []string{paths[5]}, ds.DosePaths)

	require.Len(t, progress, len(paths))
	assert.Equal(t, len(paths), progress[len(progress)-1].Done)
	assert.Error(t, progress[len(progress)-1].Err)

	require.NotNil(t, ds.CT)
	require.Len(t, ds.CT.Slices, 3)
	assert.Equal(t, []float64{-5, 2.5, 10}, []float64{ds.CT.Slices[0].Z, ds.CT.Slices[1].Z, ds.CT.Slices[2].Z})
	// HU = raw*2 - 1024
	assert.Equal(t, 10*2-1024.0, ds.CT.HU(0, 0, 0))
	assert.Equal(t, 13*2-1024.0, ds.CT.HU(1, 1, 0))
	assert.Equal(t, -4*2-1024.0, ds.CT.HU(1, 1, 1))

	require.NotNil(t, ds.Structures)
	require.NotNil(t, ds.Plan)
	assert.InDelta(t, 40000*100/3600.0, ds.Plan.DoseScaling, 1e-9)
}

func TestCT_Boundaries(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDICOM(t, dir, "a.dcm", ctSlice(0, 0, 0, 0, 0)),
		writeDICOM(t, dir, "b.dcm", ctSlice(2, 0, 0, 0, 0)),
		writeDICOM(t, dir, "c.dcm", ctSlice(6, 0, 0, 0, 0)),
	}
	ds, _, err := Extract(context.Background(), paths)
	require.NoError(t, err)

	nx, ny, nz := ds.CT.Dims()
	assert.Equal(t, []int{2, 2, 3}, []int{nx, ny, nz})

	x, y, z := ds.CT.Boundaries()
	// column spacing 0.25 mm, row spacing 0.5 mm, origin (-10,-20) mm
	assert.InDeltaSlice(t, []float64{-1.0125, -0.9875, -0.9625}, x, 1e-12)
	assert.InDeltaSlice(t, []float64{-2.025, -1.975, -1.925}, y, 1e-12)
	assert.InDeltaSlice(t, []float64{-0.1, 0.1, 0.4, 0.8}, z, 1e-12)
}

func TestExtract_CTSliceMismatchDropped(t *testing.T) {
	dir := t.TempDir()
	odd := writeDICOM(t, dir, "odd.dcm", func(e *dicom.Encoder) error {
		return all(
			e.WriteString(tag.Modality, vr.CS, "CT"),
			e.WriteString(tag.ImagePositionPatient, vr.DS, "0", "0", "50"),
			e.WriteUint16s(tag.Rows, 1),
			e.WriteUint16s(tag.Columns, 1),
			e.WriteString(tag.PixelSpacing, vr.DS, "1", "1"),
			e.WriteElement(tag.PixelData, vr.OW, []byte{1, 0}),
		)
	})
	noPos := writeDICOM(t, dir, "nopos.dcm", func(e *dicom.Encoder) error {
		return e.WriteString(tag.Modality, vr.CS, "CT")
	})
	good := writeDICOM(t, dir, "good.dcm", ctSlice(0, 1, 2, 3, 4))

	ds, rep, err := Extract(context.Background(), []string{odd, noPos, good})
	require.NoError(t, err)
	require.Len(t, ds.CT.Slices, 1)
	assert.Equal(t, good, ds.CT.Slices[0].Path)
	assert.GreaterOrEqual(t, len(rep.Warnings), 2)
}

func TestExtract_StructureDeletion(t *testing.T) {
	dir := t.TempDir()
	path := writeDICOM(t, dir, "rs.dcm", structureSet)
	ds, _, err := Extract(context.Background(), []string{path})
	require.NoError(t, err)

	ss := ds.Structures
	require.NotNil(t, ss)
	assert.Equal(t, []string{"Body"}, ss.Names())
	assert.Equal(t, 1, ss.Removed)
	assert.Equal(t, map[int]int{1: 0}, ss.Lookup)

	_, ok := ss.ByNumber(2)
	assert.False(t, ok, "brachy channel removed")
	_, ok = ss.ByNumber(3)
	assert.False(t, ok, "empty structure removed")

	body, ok := ss.External()
	require.True(t, ok)
	assert.True(t, body.External)
	assert.Equal(t, [3]int{255, 0, 128}, body.Color)
	require.Len(t, body.Contours, 2)
	assert.Equal(t, 5.0, body.Contours[1].Z)
	assert.Equal(t, "CLOSED_PLANAR", body.Contours[0].Type)
	assert.Equal(t, [3]float64{10, 10, 2.5}, body.Contours[0].Points[2])
}

func TestExtract_Plan(t *testing.T) {
	dir := t.TempDir()
	path := writeDICOM(t, dir, "rp.dcm", hdrPlan)
	ds, rep, err := Extract(context.Background(), []string{path})
	require.NoError(t, err)

	plan := ds.Plan
	require.NotNil(t, plan)
	assert.Equal(t, "INTERSTITIAL", plan.Technique)
	assert.Equal(t, "HDR", plan.Type)

	require.Len(t, plan.Sources, 1)
	src := plan.Sources[0]
	assert.Equal(t, "Ir-192", src.Isotope)
	assert.Equal(t, 73.83, src.HalfLife)
	assert.Equal(t, 40000.0, src.AirKermaStrength)
	assert.Equal(t, "LINE", src.Type)
	assert.Equal(t, "Acme", src.Manufacturer)
	assert.Equal(t, "mHDR-v2", src.Private[tag.New(0x300B, 0x1010)])

	require.Len(t, plan.Channels, 1)
	ch := plan.Channels[0]
	assert.Equal(t, 1, ch.Setup)
	assert.Equal(t, 1, ch.SourceNumber)
	require.Len(t, ch.Dwells, 2)
	assert.Equal(t, 50.0, ch.Dwells[0].Time)
	assert.Equal(t, 50.0, ch.Dwells[1].Time)
	assert.Equal(t, [3]float64{1, 2, 3}, ch.Dwells[0].Position)
	assert.Equal(t, 100.0, plan.TotalTime)
	assert.Equal(t, 0.5, plan.MaxDwellFraction)

	// only the missing CT and structure set are reported
	assert.Len(t, rep.Warnings, 2)
}

func TestExtract_MultiplePlansLastWins(t *testing.T) {
	dir := t.TempDir()
	first := writeDICOM(t, dir, "rp1.dcm", hdrPlan)
	second := writeDICOM(t, dir, "rp2.dcm", hdrPlan)
	ds, rep, err := Extract(context.Background(), []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, second, ds.Plan.Path)
	assert.Equal(t, 2, rep.Plan)
	assert.Contains(t, rep.Warnings[0], "multiple plans")
}

func TestExtract_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeDICOM(t, dir, "rp.dcm", hdrPlan)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds, _, err := Extract(ctx, []string{path})
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDwellTimes(t *testing.T) {
	same := [3]float64{1, 2, 3}
	cps := []controlPoint{{same, 0}, {same, 0.5}, {same, 1}}
	dwells, err := dwellTimes(100, 1, cps)
	require.NoError(t, err)
	require.Len(t, dwells, 2)
	assert.Equal(t, 50.0, dwells[0].Time)
	assert.Equal(t, 50.0, dwells[1].Time)

	// stepping source: transit segments carry no weight
	cps = []controlPoint{
		{[3]float64{0, 0, 0}, 0}, {[3]float64{0, 0, 0}, 2},
		{[3]float64{0, 0, 5}, 2}, {[3]float64{0, 0, 5}, 8},
	}
	dwells, err = dwellTimes(40, 8, cps)
	require.NoError(t, err)
	require.Len(t, dwells, 2)
	assert.Equal(t, 10.0, dwells[0].Time)
	assert.Equal(t, 30.0, dwells[1].Time)
	assert.Equal(t, 5.0, dwells[1].Position[2])

	// weight gained in transit is not a dwell
	cps = []controlPoint{
		{[3]float64{0, 0, 0}, 0}, {[3]float64{0, 0, 5}, 0.5}, {[3]float64{0, 0, 5}, 1},
	}
	dwells, err = dwellTimes(100, 1, cps)
	require.NoError(t, err)
	require.Len(t, dwells, 1)
	assert.Equal(t, Dwell{Position: [3]float64{0, 0, 5}, Time: 50}, dwells[0])

	_, err = dwellTimes(100, 0, cps)
	assert.Error(t, err)

	dwells, err = dwellTimes(100, 1, cps[:1])
	assert.NoError(t, err)
	assert.Empty(t, dwells)
}

func TestDoseScalingFactor(t *testing.T) {
	tau := MeanLife(59.4) // I-125
	assert.InDelta(t, 59.4*24/0.6931471805599453, tau, 1e-9)

	tests := []struct {
		name      string
		technique string
		kind      string
		time      float64
		want      float64
		fallback  bool
	}{
		{"permanent ldr", "PERMANENT", "LDR", 0, 0.5 * tau, false},
		{"permanent manual", "PERMANENT", "MANUAL", 0, 0.5 * tau, false},
		{"temporary ldr", "INTERSTITIAL", "LDR", 7200, 0.5 * tau * (1 - math.Exp(-2/tau)), false},
		{"hdr", "INTRACAVITARY", "HDR", 1800, 0.25, false},
		{"unknown", "INTRACAVITARY", "PDR", 1800, 0.5 * tau, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := DoseScalingFactor(tt.technique, tt.kind, 0.5, 59.4, tt.time)
			assert.Equal(t, tt.fallback, fallback)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	got, _ := DoseScalingFactor("INTERSTITIAL", "LDR", 0.5, 0, 3600)
	assert.Zero(t, got, "zero half-life guarded")
}

func TestDecodeHU_Unsigned8(t *testing.T) {
	px := &dicom.Attribute{VR: vr.OB, Value: []byte{0, 255}}
	hu, err := decodeHU(px, 2, 8, false, 1, -1000)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1000, -745}, hu)

	_, err = decodeHU(px, 4, 8, false, 1, 0)
	assert.Error(t, err)
	_, err = decodeHU(px, 1, 12, false, 1, 0)
	assert.Error(t, err)
}

func TestExtract_RLESlice(t *testing.T) {
	native := []byte{0x00, 0x00, 0x10, 0x00, 0xFF, 0xFF, 0x00, 0x01} // 0, 16, -1, 256
	frame, err := rle.Encode(native, 2)
	require.NoError(t, err)

	write := func(syntax transfer.Syntax) string {
		var buf bytes.Buffer
		e := dicom.NewEncoder(&buf)
		require.NoError(t, all(
			e.WritePreamble(),
			e.WriteString(tag.TransferSyntaxUID, vr.UI, string(syntax)),
			e.WriteString(tag.Modality, vr.CS, "CT"),
			e.WriteString(tag.ImagePositionPatient, vr.DS, "0", "0", "1"),
			e.WriteUint16s(tag.Rows, 2),
			e.WriteUint16s(tag.Columns, 2),
			e.WriteString(tag.PixelSpacing, vr.DS, "1", "1"),
			e.WriteUint16s(tag.BitsAllocated, 16),
			e.WriteUint16s(tag.PixelRepresentation, 1),
			e.WriteAttribute(&dicom.Attribute{
				Tag:   tag.PixelData,
				VR:    vr.OB,
				Items: []*dicom.SequenceItem{{}, {Data: frame}},
			}),
		))
		path := filepath.Join(t.TempDir(), "rle.dcm")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
		return path
	}

	ds, _, err := Extract(context.Background(), []string{write(transfer.RLELossless)})
	require.NoError(t, err)
	require.NotNil(t, ds.CT)
	assert.Equal(t, []float64{0, 16, -1, 256}, ds.CT.Slices[0].HU)

	ds, rep, err := Extract(context.Background(), []string{write(transfer.JPEGBaseline)})
	require.NoError(t, err)
	assert.Nil(t, ds.CT)
	assert.Contains(t, fmt.Sprint(rep.Warnings), ErrEncapsulated.Error())
}
