// Package transfer defines DICOM Transfer Syntaxes
package transfer

import "strings"

// Syntax represents a DICOM Transfer Syntax
type Syntax string

// Uncompressed transfer syntaxes the stream parser decodes
const (
	ImplicitVRLittleEndian Syntax = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian Syntax = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndian    Syntax = "1.2.840.10008.1.2.2" // Retired
)

// Encapsulated syntaxes, recognised by name only
const (
	JPEGBaseline           Syntax = "1.2.840.10008.1.2.4.50"
	JPEGLosslessFirstOrder Syntax = "1.2.840.10008.1.2.4.70"
	JPEGLSLossless         Syntax = "1.2.840.10008.1.2.4.80"
	JPEG2000Lossless       Syntax = "1.2.840.10008.1.2.4.90"
	RLELossless            Syntax = "1.2.840.10008.1.2.5"
	DeflatedExplicitVR     Syntax = "1.2.840.10008.1.2.1.99"
)

// FromUID converts a UID value, which may carry NUL or space padding, to a Syntax
func FromUID(uid string) Syntax {
	return Syntax(strings.TrimRight(uid, "\x00 "))
}

// IsKnown returns true for the three syntaxes with a defined element encoding
func (s Syntax) IsKnown() bool {
	switch s {
	case ImplicitVRLittleEndian, ExplicitVRLittleEndian, ExplicitVRBigEndian:
		return true
	}
	return false
}

// IsEncapsulated returns true for the compressed pixel data syntaxes whose
// dataset is encoded as explicit VR little endian
func (s Syntax) IsEncapsulated() bool {
	switch s {
	case JPEGBaseline, JPEGLosslessFirstOrder, JPEGLSLossless, JPEG2000Lossless, RLELossless:
		return true
	}
	return false
}

// IsImplicitVR returns true if this transfer syntax omits VRs from the stream
func (s Syntax) IsImplicitVR() bool {
	return s == ImplicitVRLittleEndian
}

// IsBigEndian returns true if this transfer syntax uses big endian byte order
func (s Syntax) IsBigEndian() bool {
	return s == ExplicitVRBigEndian
}

// Name returns a human-readable name for the transfer syntax
func (s Syntax) Name() string {
	switch s {
	case ImplicitVRLittleEndian:
		return "Implicit VR Little Endian"
	case ExplicitVRLittleEndian:
		return "Explicit VR Little Endian"
	case ExplicitVRBigEndian:
		return "Explicit VR Big Endian (Retired)"
	case JPEGBaseline:
		return "JPEG Baseline (Process 1)"
	case JPEGLosslessFirstOrder:
		return "JPEG Lossless First-Order (Process 14, SV1)"
	case JPEGLSLossless:
		return "JPEG-LS Lossless"
	case JPEG2000Lossless:
		return "JPEG 2000 Lossless"
	case RLELossless:
		return "RLE Lossless"
	case DeflatedExplicitVR:
		return "Deflated Explicit VR Little Endian"
	default:
		return string(s)
	}
}
