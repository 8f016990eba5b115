package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntax(t *testing.T) {
	tests := []struct {
		uid      string
		known    bool
		encap    bool
		implicit bool
		big      bool
	}{
		{"1.2.840.10008.1.2\x00", true, false, true, false},
		{"1.2.840.10008.1.2.1\x00", true, false, false, false},
		{"1.2.840.10008.1.2.2 ", true, false, false, true},
		{"1.2.840.10008.1.2.4.70", false, true, false, false},
		{"1.2.840.10008.1.2.5\x00", false, true, false, false},
		{"1.2.840.10008.1.2.1.99", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			s := FromUID(tt.uid)
			assert.Equal(t, tt.known, s.IsKnown())
			assert.Equal(t, tt.encap, s.IsEncapsulated())
			assert.Equal(t, tt.implicit, s.IsImplicitVR())
			assert.Equal(t, tt.big, s.IsBigEndian())
		})
	}
	assert.Equal(t, "Explicit VR Little Endian", ExplicitVRLittleEndian.Name())
}
