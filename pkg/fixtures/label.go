// Package fixtures loads labelled test records and derives stable identifiers
// from their labels, so fixtures can reference one another by name before any
// database-assigned key exists.
package fixtures

import (
	"encoding/binary"
	"hash/crc32"
	"strconv"

	"github.com/google/uuid"
)

// MaxID bounds the integers produced by CRC32Label.
const MaxID = 1<<30 - 1

// labelNode is the fixed node marker carried by every label-derived UUID.
var labelNode = [6]byte{0xcc, 0xcc, 0xcc, 0xcc, 0xcc, 0xcc}

// LabelToInt derives a stable integer identity from a fixture label.
type LabelToInt func(label string) uint32

// CRC32Label is the default LabelToInt: the IEEE CRC-32 of the label modulo
// MaxID.
func CRC32Label(label string) uint32 {
	return crc32.ChecksumIEEE([]byte(label)) % MaxID
}

// FromLabel returns the UUID for label using CRC32Label.
func FromLabel(label string) uuid.UUID {
	return FromLabelWith(CRC32Label, label)
}

// FromLabelWith embeds fn(label) in the time_low field of an otherwise
// constant UUID: time_mid 0, time_hi_and_version 0x4000, clock sequence
// 0x8000 and node cc:cc:cc:cc:cc:cc.
//
// The result is a stable synthetic key. It is not time-ordered and makes no
// global-uniqueness claim.
func FromLabelWith(fn LabelToInt, label string) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], fn(label))
	binary.BigEndian.PutUint16(u[4:6], 0)
	binary.BigEndian.PutUint16(u[6:8], 0x4000)
	u[8] = 0x80
	u[9] = 0x00
	copy(u[10:], labelNode[:])
	return u
}

// Identify returns the identifier a fixture labelled label receives: the
// decimal label integer, or the label UUID's canonical text when asUUID is
// set.
func Identify(label string, asUUID bool) string {
	if asUUID {
		return FromLabel(label).String()
	}
	return strconv.FormatUint(uint64(CRC32Label(label)), 10)
}
