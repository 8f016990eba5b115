package dicom

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"

	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
)

// CountingWriter tracks the number of bytes successfully written
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}

// Encoder writes explicit VR little endian elements
type Encoder struct {
	cw  *CountingWriter
	buf [8]byte
}

// NewEncoder wraps w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{cw: &CountingWriter{Writer: w}}
}

// Count returns the bytes written so far
func (e *Encoder) Count() int64 {
	return e.cw.Count.Load()
}

// WritePreamble writes the 128 zero bytes and DICM marker
func (e *Encoder) WritePreamble() error {
	preamble := make([]byte, preambleSize+4)
	copy(preamble[preambleSize:], "DICM")
	_, err := e.cw.Write(preamble)
	return err
}

func (e *Encoder) writeHeader(t Tag, v vr.VR, length uint32) error {
	binary.LittleEndian.PutUint16(e.buf[0:2], t.Group)
	binary.LittleEndian.PutUint16(e.buf[2:4], t.Element)
	if v == vr.NA {
		// item and delimiters carry no VR
		binary.LittleEndian.PutUint32(e.buf[4:8], length)
		_, err := e.cw.Write(e.buf[:8])
		return err
	}
	if len(v) != 2 {
		slog.Warn("invalid VR, writing UN", "vr", v, "tag", t)
		v = vr.UN
	}
	copy(e.buf[4:6], v)
	if v.IsLongForm() {
		binary.LittleEndian.PutUint16(e.buf[6:8], 0)
		if _, err := e.cw.Write(e.buf[:8]); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(e.buf[0:4], length)
		_, err := e.cw.Write(e.buf[:4])
		return err
	}
	if length > math.MaxUint16 {
		return fmt.Errorf("value of %d bytes too long for %s %v", length, v, t)
	}
	binary.LittleEndian.PutUint16(e.buf[6:8], uint16(length))
	_, err := e.cw.Write(e.buf[:8])
	return err
}

// WriteElement writes one element, padding odd length values with the VR's pad byte
func (e *Encoder) WriteElement(t Tag, v vr.VR, value []byte) error {
	if len(value)%2 != 0 {
		value = append(value[:len(value):len(value)], v.PadByte())
	}
	if err := e.writeHeader(t, v, uint32(len(value))); err != nil {
		return fmt.Errorf("write %v: %w", t, err)
	}
	if _, err := e.cw.Write(value); err != nil {
		return fmt.Errorf("write %v: %w", t, err)
	}
	return nil
}

// WriteString writes character data, joining multiple values with backslash
func (e *Encoder) WriteString(t Tag, v vr.VR, values ...string) error {
	return e.WriteElement(t, v, []byte(strings.Join(values, `\`)))
}

// WriteUint16s writes US values
func (e *Encoder) WriteUint16s(t Tag, values ...uint16) error {
	b := make([]byte, len(values)*2)
	for i, u := range values {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	return e.WriteElement(t, vr.US, b)
}

// WriteUint32s writes UL values
func (e *Encoder) WriteUint32s(t Tag, values ...uint32) error {
	b := make([]byte, len(values)*4)
	for i, u := range values {
		binary.LittleEndian.PutUint32(b[i*4:], u)
	}
	return e.WriteElement(t, vr.UL, b)
}

// BeginSequence opens an undefined length sequence
func (e *Encoder) BeginSequence(t Tag) error {
	return e.writeHeader(t, vr.SQ, UndefinedLength)
}

// EndSequence writes the sequence delimitation item
func (e *Encoder) EndSequence() error {
	return e.writeHeader(tag.SequenceDelimitationItem, vr.NA, 0)
}

// BeginItem opens an undefined length item
func (e *Encoder) BeginItem() error {
	return e.writeHeader(tag.Item, vr.NA, UndefinedLength)
}

// EndItem writes the item delimitation item
func (e *Encoder) EndItem() error {
	return e.writeHeader(tag.ItemDelimitationItem, vr.NA, 0)
}

// WriteAttribute re-encodes a parsed attribute as explicit little endian.
// Sequences are written with undefined lengths; numeric values from big endian
// sources are byte swapped.
func (e *Encoder) WriteAttribute(a *Attribute) error {
	if a.VR == vr.SQ || (a.VR == vr.UN && len(a.Items) > 0 && a.Value == nil) {
		if err := e.BeginSequence(a.Tag); err != nil {
			return err
		}
		for _, it := range a.Items {
			if err := e.BeginItem(); err != nil {
				return err
			}
			for _, child := range it.Attributes {
				if err := e.WriteAttribute(child); err != nil {
					return err
				}
			}
			if err := e.EndItem(); err != nil {
				return err
			}
		}
		return e.EndSequence()
	}
	if a.Value == nil && len(a.Items) > 0 {
		// encapsulated fragments
		if err := e.writeHeader(a.Tag, a.VR, UndefinedLength); err != nil {
			return err
		}
		for _, it := range a.Items {
			if err := e.writeHeader(tag.Item, vr.NA, uint32(len(it.Data))); err != nil {
				return err
			}
			if _, err := e.cw.Write(it.Data); err != nil {
				return err
			}
		}
		return e.EndSequence()
	}
	return e.WriteElement(a.Tag, a.VR, littleEndianValue(a))
}

func littleEndianValue(a *Attribute) []byte {
	if a.ByteOrder() == binary.LittleEndian {
		return a.Value
	}
	size := a.VR.ValueSize()
	switch a.VR {
	case vr.OW, vr.AT:
		size = 2
	case vr.OL, vr.OF:
		size = 4
	case vr.OD, vr.OV:
		size = 8
	}
	if size < 2 {
		return a.Value
	}
	out := make([]byte, len(a.Value))
	copy(out, a.Value)
	for i := 0; i+size <= len(out); i += size {
		for l, r := i, i+size-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}
