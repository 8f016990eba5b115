package dose

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
	"github.com/jpfielding/brachy.go/pkg/dicom/vr"
)

//go:embed rtdose.tmpl
var defaultTemplate string

// Kind says where a template line gets its value
type Kind string

const (
	KindLiteral Kind = "literal"
	KindRef     Kind = "ref"
	KindNumeric Kind = "numeric"
	KindDelim   Kind = "delim"
)

// delimiter values
const (
	delimBegin   = "begin"
	delimItem    = "item"
	delimEndItem = "enditem"
	delimEnd     = "end"
)

// Entry is one template line
type Entry struct {
	Line  int
	Tag   tag.Tag
	VR    vr.VR
	Kind  Kind
	Value string
	raw   []byte // encoded numeric value
}

// Template lists the elements of an output document in write order
type Template struct {
	Entries []Entry
}

// DefaultTemplate parses the embedded RT Dose layout
func DefaultTemplate() (*Template, error) {
	return ParseTemplate(strings.NewReader(defaultTemplate))
}

// LoadTemplate parses the template at path
func LoadTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ParseTemplate(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTemplate reads "GGGG,EEEE VR kind value" lines. Blank lines and lines
// starting with # are skipped; value runs to the end of the line.
func ParseTemplate(r io.Reader) (*Template, error) {
	t := &Template{}
	sc := bufio.NewScanner(r)
	depth, items := 0, 0
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseEntry(n, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if e.Kind == KindDelim {
			switch e.Value {
			case delimBegin:
				depth++
			case delimItem:
				items++
			case delimEndItem:
				items--
			case delimEnd:
				depth--
			}
			if depth < 0 || items < 0 || items > depth {
				return nil, fmt.Errorf("line %d: unbalanced %s", n, e.Value)
			}
		}
		t.Entries = append(t.Entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if depth != 0 || items != 0 {
		return nil, fmt.Errorf("unterminated sequence")
	}
	return t, nil
}

func parseEntry(n int, line string) (Entry, error) {
	e := Entry{Line: n}
	tagField, rest := nextField(line)
	vrField, rest := nextField(rest)
	kindField, value := nextField(rest)
	e.Value = value

	group, element, ok := strings.Cut(tagField, ",")
	g, gerr := strconv.ParseUint(group, 16, 16)
	el, eerr := strconv.ParseUint(element, 16, 16)
	if !ok || gerr != nil || eerr != nil {
		return e, fmt.Errorf("bad tag %q", tagField)
	}
	e.Tag = tag.New(uint16(g), uint16(el))
	e.VR = vr.VR(vrField)
	e.Kind = Kind(kindField)

	switch e.Kind {
	case KindDelim:
		want := vr.NA
		switch value {
		case delimBegin:
			want = vr.SQ
		case delimItem, delimEndItem, delimEnd:
		default:
			return e, fmt.Errorf("unknown delimiter %q", value)
		}
		if e.VR != want {
			return e, fmt.Errorf("%s delimiter needs VR %s", value, want)
		}
		return e, nil
	case KindLiteral:
	case KindRef:
		if value == "" {
			return e, fmt.Errorf("ref without a name")
		}
	case KindNumeric:
		raw, err := encodeNumeric(e.VR, value)
		if err != nil {
			return e, err
		}
		e.raw = raw
	default:
		return e, fmt.Errorf("unknown kind %q", kindField)
	}
	if !e.VR.IsValid() || e.VR == vr.SQ {
		return e, fmt.Errorf("%w: %q", dicom.ErrInvalidVR, vrField)
	}
	return e, nil
}

func nextField(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

// binary reports VRs whose values are encoded numbers rather than text
func binaryVR(v vr.VR) bool {
	switch v {
	case vr.US, vr.SS, vr.UL, vr.SL, vr.FL, vr.FD, vr.AT, vr.OB:
		return true
	}
	return false
}

// encodeNumeric converts comma or backslash separated numbers to little endian bytes
func encodeNumeric(v vr.VR, value string) ([]byte, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\\' || unicode.IsSpace(r)
	})
	var out []byte
	if v == vr.AT {
		if len(fields)%2 != 0 {
			return nil, fmt.Errorf("AT value %q is not gggg,eeee pairs", value)
		}
		for _, f := range fields {
			u, err := strconv.ParseUint(f, 16, 16)
			if err != nil {
				return nil, fmt.Errorf("AT value %q: %w", value, err)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(u))
		}
		return out, nil
	}
	for _, f := range fields {
		var err error
		switch v {
		case vr.OB:
			var u uint64
			u, err = strconv.ParseUint(f, 0, 8)
			out = append(out, byte(u))
		case vr.US:
			var u uint64
			u, err = strconv.ParseUint(f, 10, 16)
			out = binary.LittleEndian.AppendUint16(out, uint16(u))
		case vr.SS:
			var i int64
			i, err = strconv.ParseInt(f, 10, 16)
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(i)))
		case vr.UL:
			var u uint64
			u, err = strconv.ParseUint(f, 10, 32)
			out = binary.LittleEndian.AppendUint32(out, uint32(u))
		case vr.SL:
			var i int64
			i, err = strconv.ParseInt(f, 10, 32)
			out = binary.LittleEndian.AppendUint32(out, uint32(int32(i)))
		case vr.FL:
			var x float64
			x, err = strconv.ParseFloat(f, 32)
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(x)))
		case vr.FD:
			var x float64
			x, err = strconv.ParseFloat(f, 64)
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(x))
		default:
			return nil, fmt.Errorf("numeric values not supported for VR %s", v)
		}
		if err != nil {
			return nil, fmt.Errorf("%s value %q: %w", v, f, err)
		}
	}
	return out, nil
}

// Refs lists the names the template expects from the converter
func (t *Template) Refs() []string {
	var names []string
	seen := map[string]bool{}
	for _, e := range t.Entries {
		if e.Kind == KindRef && e.Tag != tag.FileMetaInformationGroupLength && !seen[e.Value] {
			seen[e.Value] = true
			names = append(names, e.Value)
		}
	}
	return names
}

// Execute writes the preamble and every entry to w. refs values may be a
// string, []string or []byte; strings for binary VRs are encoded as numbers.
// (0002,0000) is always computed from the group 0002 entries that follow it.
func (t *Template) Execute(w io.Writer, refs map[string]any) error {
	var meta, body bytes.Buffer
	menc, benc := dicom.NewEncoder(&meta), dicom.NewEncoder(&body)
	groupLength := false
	for _, e := range t.Entries {
		if e.Tag == tag.FileMetaInformationGroupLength {
			groupLength = true
			continue
		}
		enc := benc
		if e.Tag.IsFileMeta() {
			enc = menc
		}
		if err := e.write(enc, refs); err != nil {
			return fmt.Errorf("template line %d %v: %w", e.Line, e.Tag, err)
		}
	}

	out := dicom.NewEncoder(w)
	if err := out.WritePreamble(); err != nil {
		return err
	}
	if groupLength {
		if err := out.WriteUint32s(tag.FileMetaInformationGroupLength, uint32(meta.Len())); err != nil {
			return err
		}
	}
	if _, err := meta.WriteTo(w); err != nil {
		return err
	}
	_, err := body.WriteTo(w)
	return err
}

func (e Entry) write(enc *dicom.Encoder, refs map[string]any) error {
	switch e.Kind {
	case KindDelim:
		switch e.Value {
		case delimBegin:
			return enc.BeginSequence(e.Tag)
		case delimItem:
			return enc.BeginItem()
		case delimEndItem:
			return enc.EndItem()
		default:
			return enc.EndSequence()
		}
	case KindLiteral:
		return enc.WriteString(e.Tag, e.VR, e.Value)
	case KindNumeric:
		return enc.WriteElement(e.Tag, e.VR, e.raw)
	}

	v, ok := refs[e.Value]
	if !ok {
		return fmt.Errorf("no value for ref %q", e.Value)
	}
	switch x := v.(type) {
	case []byte:
		return enc.WriteElement(e.Tag, e.VR, x)
	case string:
		if binaryVR(e.VR) {
			raw, err := encodeNumeric(e.VR, x)
			if err != nil {
				return err
			}
			return enc.WriteElement(e.Tag, e.VR, raw)
		}
		return enc.WriteString(e.Tag, e.VR, x)
	case []string:
		if binaryVR(e.VR) {
			raw, err := encodeNumeric(e.VR, strings.Join(x, `\`))
			if err != nil {
				return err
			}
			return enc.WriteElement(e.Tag, e.VR, raw)
		}
		return enc.WriteString(e.Tag, e.VR, x...)
	default:
		return fmt.Errorf("ref %q has unsupported type %T", e.Value, v)
	}
}
