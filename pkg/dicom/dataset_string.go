package dicom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
)

// display renders the value for listings: text for character data, decoded
// numbers for short binary values, a byte count otherwise
func (a *Attribute) display() any {
	switch {
	case a.VR == vr.SQ || (a.Value == nil && len(a.Items) > 0):
		return fmt.Sprintf("%d items", len(a.Items))
	case a.VR.IsString():
		return a.Text()
	case a.VR == vr.FL || a.VR == vr.FD:
		v, _ := a.Float64s()
		return v
	case a.VR == vr.US || a.VR == vr.SS || a.VR == vr.UL || a.VR == vr.SL:
		if len(a.Value) <= 32 {
			v, _ := a.Ints()
			return v
		}
	}
	if len(a.Value) > 20 {
		return fmt.Sprintf("Binary Data (%d bytes)", len(a.Value))
	}
	return a.Value
}

// String returns a string representation of the Attribute
func (a *Attribute) String() string {
	// Format: [Tag] [VR] (Name): Value
	name := a.Tag.Name()
	if name != "" {
		name = " " + name
	}
	return fmt.Sprintf("[%s] %s%s: %v", a.Tag, a.VR, name, a.display())
}

// MarshalJSON returns a JSON representation of the Attribute
func (a *Attribute) MarshalJSON() ([]byte, error) {
	out := struct {
		Tag   string         `json:"tag"`
		Name  string         `json:"name,omitempty"`
		VR    string         `json:"vr"`
		Value any            `json:"value,omitempty"`
		Items [][]*Attribute `json:"items,omitempty"`
	}{
		Tag:  a.Tag.String(),
		Name: a.Tag.Name(),
		VR:   string(a.VR),
	}
	if a.VR == vr.SQ || (a.Value == nil && len(a.Items) > 0 && a.Items[0].Attributes != nil) {
		for _, it := range a.Items {
			out.Items = append(out.Items, it.Attributes)
		}
	} else {
		out.Value = a.display()
	}
	return json.Marshal(out)
}

// String lists the attributes in stream order, indenting sequence items
func (f *File) String() string {
	if f == nil {
		return "<nil>"
	}
	var b strings.Builder
	writeAttributes(&b, f.Attributes, 0)
	return b.String()
}

func writeAttributes(b *strings.Builder, attrs []*Attribute, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, a := range attrs {
		b.WriteString(indent)
		b.WriteString(a.String())
		b.WriteString("\n")
		for i, it := range a.Items {
			if it.Attributes == nil {
				continue
			}
			fmt.Fprintf(b, "%s  > item %d\n", indent, i+1)
			writeAttributes(b, it.Attributes, depth+2)
		}
	}
}

// MarshalJSON returns the file summary and its attributes in stream order
func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path       string       `json:"path,omitempty"`
		Syntax     string       `json:"transfer_syntax"`
		Attributes []*Attribute `json:"attributes"`
	}{
		Path:       f.Path,
		Syntax:     f.Syntax.Name(),
		Attributes: f.Attributes,
	})
}
