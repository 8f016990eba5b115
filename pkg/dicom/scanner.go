package dicom

import (
	"encoding/binary"
	"slices"

	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
)

// scanFrame is the encoding in force at one nesting level
type scanFrame struct {
	implicit bool
	order    binary.ByteOrder
}

// itemScanner finds the end of an undefined length item. It steps from element
// header to element header through a 12-byte window and copies defined length
// values whole, so value bytes are never taken for headers. stack holds the
// undefined length sequences and items opened inside the item; only an item
// delimitation tag seen with an empty stack ends it.
type itemScanner struct {
	cur    scanFrame
	stack  []scanFrame
	window [12]byte
}

func newItemScanner(order binary.ByteOrder, implicit bool) *itemScanner {
	return &itemScanner{cur: scanFrame{implicit: implicit, order: order}}
}

// scan consumes the item payload, its delimitation tag and the trailing length.
// It returns the payload and the number of bytes consumed.
func (sc *itemScanner) scan(s *byteStream) ([]byte, int64, error) {
	var out []byte
	var consumed int64
	for {
		t, length, n, err := sc.header(s)
		if err != nil {
			return nil, 0, err
		}
		consumed += int64(n)
		if t == tag.ItemDelimitationItem && len(sc.stack) == 0 {
			return out, consumed, nil
		}
		out = append(out, sc.window[:n]...)

		switch {
		case t == tag.ItemDelimitationItem || t == tag.SequenceDelimitationItem:
			if len(sc.stack) == 0 {
				return nil, 0, ErrMalformedSequence
			}
			sc.cur = sc.stack[len(sc.stack)-1]
			sc.stack = sc.stack[:len(sc.stack)-1]
		case length == UndefinedLength:
			sc.stack = append(sc.stack, sc.cur)
			// undefined length UN is implicit little endian inside
			if !sc.cur.implicit && t != tag.Item && vr.VR(sc.window[4:6]) == vr.UN {
				sc.cur = scanFrame{implicit: true, order: binary.LittleEndian}
			}
		default:
			start := len(out)
			out = slices.Grow(out, int(length))[:start+int(length)]
			if err := s.readFull(out[start:]); err != nil {
				return nil, 0, err
			}
			consumed += int64(length)
		}
	}
}

// header reads one element, item or delimiter header into the window and
// returns its tag, value length and size in bytes
func (sc *itemScanner) header(s *byteStream) (tag.Tag, uint32, int, error) {
	w := sc.window[:]
	order := sc.cur.order
	if err := s.readFull(w[:8]); err != nil {
		return tag.Tag{}, 0, 0, err
	}
	t := tag.New(order.Uint16(w[0:2]), order.Uint16(w[2:4]))
	if sc.cur.implicit || t.IsItemOrDelimiter() {
		return t, order.Uint32(w[4:8]), 8, nil
	}
	v := vr.VR(w[4:6])
	if !v.IsValid() {
		return t, 0, 0, ErrInvalidVR
	}
	if !v.IsLongForm() {
		return t, uint32(order.Uint16(w[6:8])), 8, nil
	}
	if err := s.readFull(w[8:12]); err != nil {
		return t, 0, 0, err
	}
	return t, order.Uint32(w[8:12]), 12, nil
}
