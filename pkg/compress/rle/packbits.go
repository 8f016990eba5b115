package rle

import (
	"errors"
	"fmt"
)

// PackBits byte segments, PS3.5 G.3

const maxRun = 128

// encodePackBits emits replicate runs for 2 or more equal bytes and literal
// runs otherwise, each at most 128 bytes
func encodePackBits(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, 0, len(data)+len(data)/maxRun+1)
	for i := 0; i < len(data); {
		run := 1
		for i+run < len(data) && run < maxRun && data[i+run] == data[i] {
			run++
		}
		if run > 1 {
			out = append(out, byte(int8(1-run)), data[i])
			i += run
			continue
		}
		// literal until three equal bytes start a worthwhile run
		lit := 1
		for i+lit < len(data) && lit < maxRun {
			if i+lit+2 < len(data) && data[i+lit] == data[i+lit+1] && data[i+lit] == data[i+lit+2] {
				break
			}
			lit++
		}
		out = append(out, byte(lit-1))
		out = append(out, data[i:i+lit]...)
		i += lit
	}
	return out
}

// decodePackBits expands data, stopping once want bytes are produced when want > 0
func decodePackBits(data []byte, want int) ([]byte, error) {
	var out []byte
	if want > 0 {
		out = make([]byte, 0, want)
	}
	for i := 0; i < len(data); {
		if want > 0 && len(out) >= want {
			break
		}
		n := int8(data[i])
		i++
		switch {
		case n == -128:
			// no-op
		case n >= 0:
			count := int(n) + 1
			if i+count > len(data) {
				return nil, fmt.Errorf("rle: compressed data truncated in literal run (i=%d, count=%d, len=%d)", i, count, len(data))
			}
			out = append(out, data[i:i+count]...)
			i += count
		default:
			if i >= len(data) {
				return nil, errors.New("rle: compressed data truncated in replicate run")
			}
			for k := 0; k < int(-n)+1; k++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
