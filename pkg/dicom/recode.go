package dicom

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jpfielding/brachy.go/pkg/compress/rle"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/transfer"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
)

// ErrUnsupportedSyntax is returned when pixel data cannot be moved between two syntaxes
var ErrUnsupportedSyntax = errors.New("dicom: unsupported transfer syntax")

// Recode writes f as a Part-10 stream in syntax, which is Explicit VR Little
// Endian or RLE Lossless. Pixel data is compressed or expanded to match and the
// file meta group length is recomputed.
func Recode(w io.Writer, f *File, syntax transfer.Syntax) error {
	if syntax != transfer.ExplicitVRLittleEndian && syntax != transfer.RLELossless {
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedSyntax, syntax.Name())
	}
	pixels, err := recodePixels(f, syntax)
	if err != nil {
		return err
	}

	var meta bytes.Buffer
	me := NewEncoder(&meta)
	for _, a := range f.Attributes {
		if a.Tag.Group != 0x0002 || a.Tag == tag.FileMetaInformationGroupLength {
			continue
		}
		if a.Tag == tag.TransferSyntaxUID {
			err = me.WriteElement(a.Tag, vr.UI, padUID(string(syntax)))
		} else {
			err = me.WriteAttribute(a)
		}
		if err != nil {
			return err
		}
	}
	if _, ok := f.Find(tag.TransferSyntaxUID); !ok {
		if err := me.WriteElement(tag.TransferSyntaxUID, vr.UI, padUID(string(syntax))); err != nil {
			return err
		}
	}

	e := NewEncoder(w)
	if err := e.WritePreamble(); err != nil {
		return err
	}
	if err := e.WriteUint32s(tag.FileMetaInformationGroupLength, uint32(meta.Len())); err != nil {
		return err
	}
	if _, err := e.cw.Write(meta.Bytes()); err != nil {
		return err
	}
	for _, a := range f.Attributes {
		if a.Tag.Group == 0x0002 {
			continue
		}
		if a.Tag == tag.PixelData && pixels != nil {
			a = pixels
		}
		if err := e.WriteAttribute(a); err != nil {
			return err
		}
	}
	return nil
}

// padUID NUL pads a UID to even length
func padUID(uid string) []byte {
	b := []byte(uid)
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	return b
}

// recodePixels returns the replacement pixel data attribute, or nil when the
// parsed one can be written as is
func recodePixels(f *File, syntax transfer.Syntax) (*Attribute, error) {
	px, ok := f.Find(tag.PixelData)
	if !ok {
		return nil, nil
	}
	encapsulated := px.Value == nil && len(px.Items) > 0
	switch {
	case encapsulated && f.Syntax == syntax:
		return nil, nil
	case encapsulated && f.Syntax != transfer.RLELossless:
		return nil, fmt.Errorf("%w: pixel data in %s", ErrUnsupportedSyntax, f.Syntax.Name())
	case !encapsulated && syntax == transfer.ExplicitVRLittleEndian:
		return nil, nil
	}

	rows, cols, sampleBytes, err := pixelGeometry(f)
	if err != nil {
		return nil, err
	}
	pixels := rows * cols
	if encapsulated {
		// item 0 is the basic offset table, then one fragment per frame
		var native []byte
		for i, it := range px.Items[1:] {
			frame, err := rle.Decode(it.Data, pixels, sampleBytes)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			native = append(native, frame...)
		}
		v := vr.OW
		if sampleBytes == 1 {
			v = vr.OB
		}
		return &Attribute{Tag: tag.PixelData, VR: v, Length: uint32(len(native)), Value: native}, nil
	}

	native := littleEndianValue(px)
	frameSize := pixels * sampleBytes
	if frameSize == 0 || len(native) < frameSize {
		return nil, fmt.Errorf("pixel data has %d bytes, frame needs %d", len(native), frameSize)
	}
	out := &Attribute{Tag: tag.PixelData, VR: vr.OB, Items: []*SequenceItem{{}}}
	for off := 0; off+frameSize <= len(native); off += frameSize {
		frame, err := rle.Encode(native[off:off+frameSize], sampleBytes)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, &SequenceItem{Data: frame})
	}
	return out, nil
}

func pixelGeometry(f *File) (rows, cols, sampleBytes int, err error) {
	value := func(t Tag, def int) int {
		if a, ok := f.Find(t); ok {
			if v, ok := a.Int(); ok {
				return v
			}
		}
		return def
	}
	if spp := value(tag.SamplesPerPixel, 1); spp != 1 {
		return 0, 0, 0, fmt.Errorf("%w: %d samples per pixel", ErrUnsupportedSyntax, spp)
	}
	rows, cols = value(tag.Rows, 0), value(tag.Columns, 0)
	bits := value(tag.BitsAllocated, 0)
	if bits != 8 && bits != 16 && bits != 32 {
		return 0, 0, 0, fmt.Errorf("%w: %d bits allocated", ErrUnsupportedSyntax, bits)
	}
	return rows, cols, bits / 8, nil
}
