package tag

import "github.com/jpfielding/brachy.go/pkg/dicom/vr"

// Entry is one row of the tag dictionary
type Entry struct {
	Tag     Tag
	VR      vr.VR
	Keyword string // e.g. ROIContourSequence
	Name    string // e.g. ROI Contour Sequence
}

// Lookup binary searches the dictionary for (group, element).
//
// On a miss it returns the entry at the search boundary rather than a zero
// value, so the returned Tag must be compared with the query to detect a
// miss. Find wraps that comparison.
func Lookup(group, element uint16) Entry {
	want := Tag{group, element}
	lo, hi := 0, len(dictionary)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch got := dictionary[mid].Tag; {
		case got == want:
			return dictionary[mid]
		case got.Less(want):
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	if lo >= len(dictionary) {
		lo = len(dictionary) - 1
	}
	return dictionary[lo]
}

// Find returns the dictionary entry for t and whether it was present
func Find(t Tag) (Entry, bool) {
	e := Lookup(t.Group, t.Element)
	return e, e.Tag == t
}

// VROf returns the dictionary VR for t, UN when the tag is unknown
func VROf(t Tag) vr.VR {
	if e, ok := Find(t); ok {
		return e.VR
	}
	return vr.UN
}

// Entries returns a copy of the dictionary in tag order
func Entries() []Entry {
	out := make([]Entry, len(dictionary))
	copy(out, dictionary)
	return out
}
