// Package rle implements the DICOM RLE Lossless frame format (PS3.5 Annex G)
// for single sample pixels of 1, 2 or 4 bytes.
package rle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize  = 64
	maxSegments = 15
)

// Decode expands one RLE frame of pixels samples into native little endian
// bytes. Segment 0 carries the most significant byte plane.
func Decode(frame []byte, pixels, sampleBytes int) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, errors.New("rle: data too short for header")
	}
	segments := int(binary.LittleEndian.Uint32(frame[0:4]))
	if segments == 0 || segments > maxSegments {
		return nil, fmt.Errorf("rle: invalid segment count %d", segments)
	}
	if segments != sampleBytes {
		return nil, fmt.Errorf("rle: %d segments for %d byte samples", segments, sampleBytes)
	}

	out := make([]byte, pixels*sampleBytes)
	for s := 0; s < segments; s++ {
		start := binary.LittleEndian.Uint32(frame[4+s*4:])
		end := uint32(len(frame))
		if s < segments-1 {
			end = binary.LittleEndian.Uint32(frame[8+s*4:])
		}
		if start < headerSize || start > end || end > uint32(len(frame)) {
			return nil, fmt.Errorf("rle: invalid offsets %d-%d for segment %d", start, end, s)
		}
		plane, err := decodePackBits(frame[start:end], pixels)
		if err != nil {
			return nil, fmt.Errorf("rle: segment %d: %w", s, err)
		}
		if len(plane) < pixels {
			return nil, fmt.Errorf("rle: segment %d decoded %d of %d bytes", s, len(plane), pixels)
		}
		shift := sampleBytes - 1 - s
		for p := 0; p < pixels; p++ {
			out[p*sampleBytes+shift] = plane[p]
		}
	}
	return out, nil
}

// Encode compresses native little endian samples into one RLE frame
func Encode(native []byte, sampleBytes int) ([]byte, error) {
	if sampleBytes < 1 || sampleBytes > maxSegments {
		return nil, fmt.Errorf("rle: unsupported sample size %d", sampleBytes)
	}
	if len(native)%sampleBytes != 0 {
		return nil, fmt.Errorf("rle: %d bytes is not a whole number of %d byte samples", len(native), sampleBytes)
	}
	pixels := len(native) / sampleBytes
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header, uint32(sampleBytes))

	out := header
	plane := make([]byte, pixels)
	for s := 0; s < sampleBytes; s++ {
		shift := sampleBytes - 1 - s
		for p := range plane {
			plane[p] = native[p*sampleBytes+shift]
		}
		binary.LittleEndian.PutUint32(out[4+s*4:], uint32(len(out)))
		seg := encodePackBits(plane)
		if len(seg)%2 != 0 {
			seg = append(seg, 0x00)
		}
		out = append(out, seg...)
	}
	return out, nil
}
