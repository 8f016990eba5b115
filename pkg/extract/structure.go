package extract

import (
	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
)

// Interpreted types with special handling
const (
	TypeExternal      = "EXTERNAL"
	TypeBrachyChannel = "BRACHY_CHANNEL"
)

func buildStructures(f *dicom.File) *StructureSet {
	ss := &StructureSet{Path: f.Path}
	byNumber := map[int]*Structure{}

	for _, it := range items(f, tag.StructureSetROISequence) {
		n, ok := integer(it, tag.ROINumber)
		if !ok {
			continue
		}
		st := &Structure{Number: n, Name: text(it, tag.ROIName)}
		ss.Structures = append(ss.Structures, st)
		byNumber[n] = st
	}

	for _, it := range items(f, tag.RTROIObservationsSequence) {
		n, _ := integer(it, tag.ReferencedROINumber)
		st, ok := byNumber[n]
		if !ok {
			continue
		}
		st.Type = text(it, tag.RTROIInterpretedType)
		st.External = st.Type == TypeExternal
	}

	for _, it := range items(f, tag.ROIContourSequence) {
		n, _ := integer(it, tag.ReferencedROINumber)
		st, ok := byNumber[n]
		if !ok {
			continue
		}
		if c := ints(it, tag.ROIDisplayColor); len(c) == 3 {
			copy(st.Color[:], c)
		}
		for _, ci := range items(it, tag.ContourSequence) {
			if c, ok := readContour(ci); ok {
				st.Contours = append(st.Contours, c)
			}
		}
	}

	kept := ss.Structures[:0]
	for _, st := range ss.Structures {
		switch {
		case st.Type == TypeBrachyChannel:
			continue
		case len(st.Contours) == 0:
			ss.Removed++
			continue
		}
		kept = append(kept, st)
	}
	ss.Structures = kept
	ss.rebuildLookup()
	return ss
}

// readContour splits the backslash delimited (x,y,z) triplets of one contour
func readContour(it *dicom.SequenceItem) (Contour, bool) {
	pts := floats(it, tag.ContourData)
	c := Contour{Type: text(it, tag.ContourGeometricType)}
	for i := 0; i+2 < len(pts); i += 3 {
		c.Points = append(c.Points, [3]float64{pts[i], pts[i+1], pts[i+2]})
	}
	if len(c.Points) == 0 {
		return c, false
	}
	c.Z = c.Points[0][2]
	return c, true
}

func (ss *StructureSet) rebuildLookup() {
	ss.Lookup = make(map[int]int, len(ss.Structures))
	for i, st := range ss.Structures {
		ss.Lookup[st.Number] = i
	}
}

// ByNumber returns the structure with ROI number n
func (ss *StructureSet) ByNumber(n int) (*Structure, bool) {
	i, ok := ss.Lookup[n]
	if !ok {
		return nil, false
	}
	return ss.Structures[i], true
}

// Names returns structure names in order
func (ss *StructureSet) Names() []string {
	names := make([]string, len(ss.Structures))
	for i, st := range ss.Structures {
		names[i] = st.Name
	}
	return names
}

// External returns the body contour, if one was flagged
func (ss *StructureSet) External() (*Structure, bool) {
	for _, st := range ss.Structures {
		if st.External {
			return st, true
		}
	}
	return nil, false
}
