package dicom

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// encodingByTerm maps Specific Character Set defined terms to decoders.
// ISO 2022 code extensions are treated as their single-byte base set.
var encodingByTerm = map[string]encoding.Encoding{
	"ISO_IR 100":      charmap.ISO8859_1,
	"ISO_IR 101":      charmap.ISO8859_2,
	"ISO_IR 109":      charmap.ISO8859_3,
	"ISO_IR 110":      charmap.ISO8859_4,
	"ISO_IR 144":      charmap.ISO8859_5,
	"ISO_IR 127":      charmap.ISO8859_6,
	"ISO_IR 126":      charmap.ISO8859_7,
	"ISO_IR 138":      charmap.ISO8859_8,
	"ISO_IR 148":      charmap.ISO8859_9,
	"ISO_IR 13":       japanese.ShiftJIS,
	"ISO_IR 192":      unicode.UTF8,
	"GB18030":         simplifiedchinese.GB18030,
	"GBK":             simplifiedchinese.GBK,
	"ISO 2022 IR 100": charmap.ISO8859_1,
	"ISO 2022 IR 101": charmap.ISO8859_2,
	"ISO 2022 IR 109": charmap.ISO8859_3,
	"ISO 2022 IR 110": charmap.ISO8859_4,
	"ISO 2022 IR 144": charmap.ISO8859_5,
	"ISO 2022 IR 127": charmap.ISO8859_6,
	"ISO 2022 IR 126": charmap.ISO8859_7,
	"ISO 2022 IR 138": charmap.ISO8859_8,
	"ISO 2022 IR 148": charmap.ISO8859_9,
	"ISO 2022 IR 87":  japanese.ISO2022JP,
}

// lookupCharset resolves the first value of a Specific Character Set.
// Default repertoire (empty or ISO_IR 6) returns nil: bytes are used as-is.
func lookupCharset(value string) (encoding.Encoding, error) {
	term := strings.TrimSpace(strings.Split(value, `\`)[0])
	if term == "" || term == "ISO_IR 6" || term == "ISO 2022 IR 6" {
		return nil, nil
	}
	enc, ok := encodingByTerm[term]
	if !ok {
		return nil, fmt.Errorf("unsupported specific character set %q", term)
	}
	return enc, nil
}
