package models

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxRecordNameLength matches the records.name VARCHAR(255) column and
// counts characters, not bytes.
const MaxRecordNameLength = 255

var (
	errEmptyRecordName = errors.New("record name is empty")
	errInvalidUTF8     = errors.New("record name is not valid UTF-8")
)

// RecordName labels a node of the record hierarchy. It is never empty and
// fits the name column.
type RecordName string

// NewRecordName checks s against the name column's limits.
func NewRecordName(s string) (RecordName, error) {
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return "", errEmptyRecordName
	case !utf8.ValidString(s):
		return "", errInvalidUTF8
	case n > MaxRecordNameLength:
		return "", fmt.Errorf("record name has %d characters, limit is %d", n, MaxRecordNameLength)
	}
	return RecordName(s), nil
}

func (n RecordName) String() string { return string(n) }
