package extract

import (
	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
)

// finder is satisfied by *dicom.File and *dicom.SequenceItem
type finder interface {
	Find(t tag.Tag) (*dicom.Attribute, bool)
}

func text(f finder, t tag.Tag) string {
	if a, ok := f.Find(t); ok {
		return a.Text()
	}
	return ""
}

func float(f finder, t tag.Tag) (float64, bool) {
	if a, ok := f.Find(t); ok {
		return a.Float64()
	}
	return 0, false
}

func floatOr(f finder, t tag.Tag, def float64) float64 {
	if v, ok := float(f, t); ok {
		return v
	}
	return def
}

func floats(f finder, t tag.Tag) []float64 {
	if a, ok := f.Find(t); ok {
		if v, ok := a.Float64s(); ok {
			return v
		}
	}
	return nil
}

func integer(f finder, t tag.Tag) (int, bool) {
	if a, ok := f.Find(t); ok {
		return a.Int()
	}
	return 0, false
}

func integerOr(f finder, t tag.Tag, def int) int {
	if v, ok := integer(f, t); ok {
		return v
	}
	return def
}

func items(f finder, t tag.Tag) []*dicom.SequenceItem {
	if a, ok := f.Find(t); ok {
		return a.Items
	}
	return nil
}

func ints(f finder, t tag.Tag) []int {
	if a, ok := f.Find(t); ok {
		if v, ok := a.Ints(); ok {
			return v
		}
	}
	return nil
}
