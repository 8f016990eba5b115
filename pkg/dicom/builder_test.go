package dicom

import (
	"bytes"
	"encoding/binary"

	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
)

// streamBuilder writes raw Part-10 bytes in any of the three uncompressed encodings
type streamBuilder struct {
	buf      bytes.Buffer
	order    binary.ByteOrder
	implicit bool
}

func newStream() *streamBuilder {
	b := &streamBuilder{order: binary.LittleEndian}
	b.buf.Write(make([]byte, 128))
	b.buf.WriteString("DICM")
	return b
}

// syntax writes (0002,0010) and switches the encoding for the following elements
func (b *streamBuilder) syntax(uid string, order binary.ByteOrder, implicit bool) *streamBuilder {
	value := []byte(uid)
	if len(value)%2 != 0 {
		value = append(value, 0)
	}
	b.buf.Write([]byte{0x02, 0x00, 0x10, 0x00, 'U', 'I'})
	binary.Write(&b.buf, binary.LittleEndian, uint16(len(value)))
	b.buf.Write(value)
	b.order, b.implicit = order, implicit
	return b
}

func (b *streamBuilder) tag(t tag.Tag) {
	binary.Write(&b.buf, b.order, t.Group)
	binary.Write(&b.buf, b.order, t.Element)
}

func (b *streamBuilder) header(t tag.Tag, v vr.VR, length uint32) *streamBuilder {
	b.tag(t)
	switch {
	case b.implicit:
		binary.Write(&b.buf, b.order, length)
	case v.IsLongForm():
		b.buf.WriteString(string(v))
		b.buf.Write([]byte{0, 0})
		binary.Write(&b.buf, b.order, length)
	default:
		b.buf.WriteString(string(v))
		binary.Write(&b.buf, b.order, uint16(length))
	}
	return b
}

func (b *streamBuilder) element(t tag.Tag, v vr.VR, value []byte) *streamBuilder {
	b.header(t, v, uint32(len(value)))
	b.buf.Write(value)
	return b
}

func (b *streamBuilder) text(t tag.Tag, v vr.VR, s string) *streamBuilder {
	if len(s)%2 != 0 {
		s += " "
	}
	return b.element(t, v, []byte(s))
}

func (b *streamBuilder) u16(t tag.Tag, v uint16) *streamBuilder {
	value := make([]byte, 2)
	b.order.PutUint16(value, v)
	return b.element(t, vr.US, value)
}

func (b *streamBuilder) beginSequence(t tag.Tag) *streamBuilder {
	return b.header(t, vr.SQ, UndefinedLength)
}

func (b *streamBuilder) item(length uint32) *streamBuilder {
	b.tag(tag.Item)
	binary.Write(&b.buf, b.order, length)
	return b
}

func (b *streamBuilder) endItem() *streamBuilder {
	b.tag(tag.ItemDelimitationItem)
	binary.Write(&b.buf, b.order, uint32(0))
	return b
}

func (b *streamBuilder) endSequence() *streamBuilder {
	b.tag(tag.SequenceDelimitationItem)
	binary.Write(&b.buf, b.order, uint32(0))
	return b
}

func (b *streamBuilder) bytes() []byte {
	return b.buf.Bytes()
}
