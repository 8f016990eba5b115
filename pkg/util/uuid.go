package util

import (
	"crypto/md5"
	"encoding/json"
	"math/big"

	"github.com/google/uuid"
)

// UIDRoot is the ISO arc for UUID derived DICOM UIDs (PS3.5 B.2)
const UIDRoot = "2.25."

// NewUID returns a random DICOM UID of the form 2.25.<uuid as integer>
func NewUID() string {
	return uuidToUID(uuid.New())
}

// DeriveUID returns a stable DICOM UID for the json encoding of value, so the
// same inputs always land on the same UID. Empty string if value can't be encoded.
func DeriveUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hash := md5.Sum(raw)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return uuidToUID(id)
}

func uuidToUID(id uuid.UUID) string {
	n := new(big.Int).SetBytes(id[:])
	return UIDRoot + n.String()
}
