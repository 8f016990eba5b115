package dicom

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/transfer"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
	"golang.org/x/text/encoding"
)

// UndefinedLength is the value length sentinel for delimited sequences and items
const UndefinedLength uint32 = 0xFFFFFFFF

// Tag alias to avoid duplication
type Tag = tag.Tag

// Attribute is one decoded data element. It exclusively owns Value and Items.
type Attribute struct {
	Tag    Tag
	VR     vr.VR
	Length uint32 // value length as read; undefined lengths become 0 once the sequence is parsed
	Value  []byte // raw value bytes in stream byte order, nil for sequences
	Items  []*SequenceItem

	order   binary.ByteOrder
	charset encoding.Encoding
}

// SequenceItem is one item of a sequence: its raw payload and the attributes parsed from it.
// Fragments of encapsulated pixel data carry Data only.
type SequenceItem struct {
	Data       []byte
	Attributes []*Attribute
}

// File is the ordered attribute list parsed from one Part-10 stream
type File struct {
	Path       string
	Attributes []*Attribute
	Syntax     transfer.Syntax
	Implicit   bool
	BigEndian  bool
	Z          float64 // third component of Image Position (Patient), NaN when absent
}

// Find returns the first top level attribute with tag t
func (f *File) Find(t Tag) (*Attribute, bool) {
	return find(f.Attributes, t)
}

// Modality returns the trimmed (0008,0060) value or ""
func (f *File) Modality() string {
	if a, ok := f.Find(tag.Modality); ok {
		return a.Text()
	}
	return ""
}

// Find returns the first attribute of the item with tag t
func (it *SequenceItem) Find(t Tag) (*Attribute, bool) {
	return find(it.Attributes, t)
}

func find(attrs []*Attribute, t Tag) (*Attribute, bool) {
	for _, a := range attrs {
		if a.Tag == t {
			return a, true
		}
	}
	return nil, false
}

// ByteOrder returns the byte order the value was encoded with
func (a *Attribute) ByteOrder() binary.ByteOrder {
	if a.order == nil {
		return binary.LittleEndian
	}
	return a.order
}

// Text returns the value as a string with trailing NUL and space padding removed.
// Character data is decoded with the file's Specific Character Set when one was given.
func (a *Attribute) Text() string {
	raw := a.Value
	if a.charset != nil && a.VR.IsString() {
		if dec, err := a.charset.NewDecoder().Bytes(raw); err == nil {
			raw = dec
		}
	}
	return strings.TrimRight(string(raw), "\x00 ")
}

// Strings splits a multi-valued string on backslash and trims each value
func (a *Attribute) Strings() []string {
	text := a.Text()
	if text == "" {
		return nil
	}
	parts := strings.Split(text, `\`)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Float64s decodes DS, IS, FL, FD, OF and OD values
func (a *Attribute) Float64s() ([]float64, bool) {
	order := a.ByteOrder()
	switch a.VR {
	case vr.DS, vr.IS:
		parts := a.Strings()
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			if p == "" {
				continue
			}
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	case vr.FL, vr.OF:
		out := make([]float64, len(a.Value)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(a.Value[i*4:])))
		}
		return out, true
	case vr.FD, vr.OD:
		out := make([]float64, len(a.Value)/8)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(a.Value[i*8:]))
		}
		return out, true
	}
	return nil, false
}

// Float64 returns the first decoded numeric value
func (a *Attribute) Float64() (float64, bool) {
	vals, ok := a.Float64s()
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// Ints decodes IS, US, SS, UL and SL values
func (a *Attribute) Ints() ([]int, bool) {
	switch a.VR {
	case vr.IS:
		parts := a.Strings()
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			if p == "" {
				continue
			}
			i, err := strconv.Atoi(p)
			if err != nil {
				return nil, false
			}
			out = append(out, i)
		}
		return out, true
	case vr.US:
		u := a.Uint16s()
		out := make([]int, len(u))
		for i, v := range u {
			out[i] = int(v)
		}
		return out, true
	case vr.SS:
		u := a.Uint16s()
		out := make([]int, len(u))
		for i, v := range u {
			out[i] = int(int16(v))
		}
		return out, true
	case vr.UL:
		u := a.Uint32s()
		out := make([]int, len(u))
		for i, v := range u {
			out[i] = int(v)
		}
		return out, true
	case vr.SL:
		u := a.Uint32s()
		out := make([]int, len(u))
		for i, v := range u {
			out[i] = int(int32(v))
		}
		return out, true
	}
	return nil, false
}

// Int returns the first decoded integer value
func (a *Attribute) Int() (int, bool) {
	vals, ok := a.Ints()
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// Uint16s decodes the value as 16-bit words in the stream's byte order
func (a *Attribute) Uint16s() []uint16 {
	order := a.ByteOrder()
	out := make([]uint16, len(a.Value)/2)
	for i := range out {
		out[i] = order.Uint16(a.Value[i*2:])
	}
	return out
}

// Uint32s decodes the value as 32-bit words in the stream's byte order
func (a *Attribute) Uint32s() []uint32 {
	order := a.ByteOrder()
	out := make([]uint32, len(a.Value)/4)
	for i := range out {
		out[i] = order.Uint32(a.Value[i*4:])
	}
	return out
}
