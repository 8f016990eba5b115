package dicom

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/transfer"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
	"github.com/jpfielding/brachy.go/pkg/logging"
	"golang.org/x/text/encoding"
)

const preambleSize = 128

// byteStream counts consumed bytes so errors can report offsets
type byteStream struct {
	r   *bufio.Reader
	off int64
}

func (s *byteStream) readFull(p []byte) error {
	n, err := io.ReadFull(s.r, p)
	s.off += int64(n)
	if err != nil {
		return ErrShortRead
	}
	return nil
}

func (s *byteStream) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, ErrShortRead
	}
	s.off++
	return b, nil
}

// parser holds the decode state for one element loop. Nested items get their own
// parser over the item payload with the same syntax and character set.
type parser struct {
	ctx      context.Context
	s        *byteStream
	implicit bool
	order    binary.ByteOrder
	charset  encoding.Encoding
	top      bool // only the outermost loop handles file meta and z

	syntax transfer.Syntax
	z      float64
	buf    [8]byte
}

// ReadFile parses the Part-10 file at path
func ReadFile(ctx context.Context, path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("path", path))
	f, err := Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse reads a complete Part-10 stream: preamble, DICM marker, then elements until EOF.
// Any failure discards the partial result.
func Parse(ctx context.Context, r io.Reader) (*File, error) {
	s := &byteStream{r: bufio.NewReaderSize(r, 64*1024)}

	// Read preamble (128 bytes) and DICM magic
	preamble := make([]byte, preambleSize+4)
	if err := s.readFull(preamble); err != nil {
		return nil, ErrNotDICOM
	}
	if string(preamble[preambleSize:]) != "DICM" {
		return nil, ErrNotDICOM
	}

	// Group 0002 is always explicit little endian, the dataset defaults to the same
	p := &parser{
		ctx:    ctx,
		s:      s,
		order:  binary.LittleEndian,
		top:    true,
		syntax: transfer.ExplicitVRLittleEndian,
		z:      math.NaN(),
	}
	attrs, err := p.readAll()
	if err != nil {
		return nil, err
	}
	return &File{
		Attributes: attrs,
		Syntax:     p.syntax,
		Implicit:   p.implicit,
		BigEndian:  p.order == binary.BigEndian,
		Z:          p.z,
	}, nil
}

// parseSequence runs the element loop over one item payload
func parseSequence(ctx context.Context, data []byte, implicit bool, order binary.ByteOrder, cs encoding.Encoding) ([]*Attribute, error) {
	p := &parser{
		ctx:      ctx,
		s:        &byteStream{r: bufio.NewReader(bytes.NewReader(data))},
		implicit: implicit,
		order:    order,
		charset:  cs,
	}
	return p.readAll()
}

func (p *parser) readAll() ([]*Attribute, error) {
	var attrs []*Attribute
	for {
		start := p.s.off
		a, err := p.readElement()
		if errors.Is(err, io.EOF) {
			return attrs, nil
		}
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				return nil, err
			}
			t := tag.Tag{}
			if a != nil {
				t = a.Tag
			}
			return nil, &ParseError{Offset: start, Tag: t, Err: err}
		}
		attrs = append(attrs, a)
		if p.top {
			p.observe(a)
		}
	}
}

// observe reacts to elements that change how the rest of the stream is read
func (p *parser) observe(a *Attribute) {
	switch a.Tag {
	case tag.TransferSyntaxUID:
		uid := a.Text()
		syn := transfer.FromUID(uid)
		if !syn.IsKnown() && !syn.IsEncapsulated() {
			slog.WarnContext(p.ctx, "unsupported transfer syntax, using explicit little endian", slog.String("uid", uid))
			syn = transfer.ExplicitVRLittleEndian
		}
		p.syntax = syn
		p.implicit = syn.IsImplicitVR()
		if syn.IsBigEndian() {
			p.order = binary.BigEndian
		} else {
			p.order = binary.LittleEndian
		}
	case tag.SpecificCharacterSet:
		cs, err := lookupCharset(a.Text())
		if err != nil {
			slog.WarnContext(p.ctx, "character set ignored", slog.Any("error", err))
			return
		}
		p.charset = cs
	case tag.ImagePositionPatient:
		if pos, ok := a.Float64s(); ok && len(pos) >= 3 {
			p.z = pos[2]
		}
	}
}

// readTag returns io.EOF only on a clean end at an element boundary
func (p *parser) readTag() (tag.Tag, binary.ByteOrder, bool, error) {
	b, err := p.s.r.Peek(4)
	if len(b) == 0 && errors.Is(err, io.EOF) {
		return tag.Tag{}, nil, false, io.EOF
	}
	if err := p.s.readFull(p.buf[:4]); err != nil {
		return tag.Tag{}, nil, false, err
	}
	if binary.LittleEndian.Uint16(p.buf[:2]) == 0x0002 {
		return tag.New(0x0002, binary.LittleEndian.Uint16(p.buf[2:4])), binary.LittleEndian, false, nil
	}
	return tag.New(p.order.Uint16(p.buf[:2]), p.order.Uint16(p.buf[2:4])), p.order, p.implicit, nil
}

func (p *parser) readUint16(order binary.ByteOrder) (uint16, error) {
	if err := p.s.readFull(p.buf[:2]); err != nil {
		return 0, err
	}
	return order.Uint16(p.buf[:2]), nil
}

func (p *parser) readUint32(order binary.ByteOrder) (uint32, error) {
	if err := p.s.readFull(p.buf[:4]); err != nil {
		return 0, err
	}
	return order.Uint32(p.buf[:4]), nil
}

func (p *parser) readElement() (*Attribute, error) {
	t, order, implicit, err := p.readTag()
	if err != nil {
		return nil, err
	}
	a := &Attribute{Tag: t, order: order, charset: p.charset}
	if t.IsItemOrDelimiter() {
		return a, ErrMalformedSequence
	}

	// VR and value length
	if implicit {
		a.VR = tag.VROf(t)
		if a.Length, err = p.readUint32(order); err != nil {
			return a, err
		}
	} else {
		if err := p.s.readFull(p.buf[:2]); err != nil {
			return a, err
		}
		a.VR = vr.VR(p.buf[:2])
		if !a.VR.IsValid() {
			return a, fmt.Errorf("%w: %q", ErrInvalidVR, string(p.buf[:2]))
		}
		if a.VR.IsLongForm() {
			// reserved
			if err := p.s.readFull(p.buf[:2]); err != nil {
				return a, err
			}
			if a.Length, err = p.readUint32(order); err != nil {
				return a, err
			}
		} else {
			l, err := p.readUint16(order)
			if err != nil {
				return a, err
			}
			a.Length = uint32(l)
		}
	}

	switch {
	case a.VR == vr.SQ || (a.VR == vr.UN && a.Length == UndefinedLength):
		// undefined length UN is implicit little endian inside
		itemImplicit, itemOrder := implicit, order
		if a.VR == vr.UN {
			itemImplicit, itemOrder = true, binary.LittleEndian
		}
		var items []*SequenceItem
		if a.Length == UndefinedLength {
			items, err = p.readSequence(order, itemImplicit)
			a.Length = 0
		} else {
			items, err = p.readDefinedSequence(a.Length, order, itemImplicit)
		}
		if err != nil {
			return a, err
		}
		for _, it := range items {
			it.Attributes, err = parseSequence(p.ctx, it.Data, itemImplicit, itemOrder, p.charset)
			if err != nil {
				return a, err
			}
		}
		a.Items = items
	case a.Length == UndefinedLength:
		// encapsulated pixel data, fragments stay raw
		a.Items, err = p.readSequence(order, implicit)
		a.Length = 0
		if err != nil {
			return a, err
		}
	default:
		a.Value = make([]byte, a.Length)
		if err := p.s.readFull(a.Value); err != nil {
			return a, err
		}
	}
	return a, nil
}

// readItemHeader reads an item or delimiter tag and its 4-byte length
func (p *parser) readItemHeader(order binary.ByteOrder) (tag.Tag, uint32, error) {
	if err := p.s.readFull(p.buf[:8]); err != nil {
		return tag.Tag{}, 0, err
	}
	t := tag.New(order.Uint16(p.buf[:2]), order.Uint16(p.buf[2:4]))
	return t, order.Uint32(p.buf[4:8]), nil
}

// readSequence reads items until the sequence delimitation item
func (p *parser) readSequence(order binary.ByteOrder, implicit bool) ([]*SequenceItem, error) {
	var items []*SequenceItem
	for {
		start := p.s.off
		t, size, err := p.readItemHeader(order)
		if err != nil {
			return nil, err
		}
		switch t {
		case tag.SequenceDelimitationItem:
			return items, nil
		case tag.Item:
			data, _, err := p.readItem(size, order, implicit)
			if err != nil {
				return nil, &ParseError{Offset: start, Tag: t, Err: err}
			}
			items = append(items, &SequenceItem{Data: data})
		default:
			return nil, &ParseError{Offset: start, Tag: t, Err: ErrMalformedSequence}
		}
	}
}

// readDefinedSequence reads items until n bytes have been consumed
func (p *parser) readDefinedSequence(n uint32, order binary.ByteOrder, implicit bool) ([]*SequenceItem, error) {
	var items []*SequenceItem
	remaining := int64(n)
	for remaining > 0 {
		start := p.s.off
		t, size, err := p.readItemHeader(order)
		if err != nil {
			return nil, err
		}
		remaining -= 8
		switch t {
		case tag.Item:
			data, consumed, err := p.readItem(size, order, implicit)
			if err != nil {
				return nil, &ParseError{Offset: start, Tag: t, Err: err}
			}
			remaining -= consumed
			items = append(items, &SequenceItem{Data: data})
		case tag.SequenceDelimitationItem:
			return items, nil
		default:
			return nil, &ParseError{Offset: start, Tag: t, Err: ErrMalformedSequence}
		}
	}
	if remaining < 0 {
		return nil, &ParseError{Offset: p.s.off, Err: fmt.Errorf("%w: items overrun sequence length %d", ErrMalformedSequence, n)}
	}
	return items, nil
}

// readItem returns the payload of one item and the bytes consumed after its header
func (p *parser) readItem(size uint32, order binary.ByteOrder, implicit bool) ([]byte, int64, error) {
	if size == UndefinedLength {
		sc := newItemScanner(order, implicit)
		return sc.scan(p.s)
	}
	data := make([]byte, size)
	if err := p.s.readFull(data); err != nil {
		return nil, 0, err
	}
	return data, int64(size), nil
}
