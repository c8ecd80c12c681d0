package identity

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Version selects the time-ordered UUID layout used for generated identifiers.
type Version string

const (
	// V1 encodes a 60-bit timestamp and the node ID, low time bits first.
	V1 Version = "v1"
	// V6 is V1 with the timestamp reordered so that text sorts by time.
	V6 Version = "v6"
	// V7 encodes Unix milliseconds followed by random bits.
	V7 Version = "v7"
)

// Generator produces fresh identifiers.
type Generator interface {
	NewUUID() (uuid.UUID, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() (uuid.UUID, error)

// NewUUID calls f.
func (f GeneratorFunc) NewUUID() (uuid.UUID, error) {
	return f()
}

// TimeOrdered returns a Generator for the given version.
func TimeOrdered(v Version) (Generator, error) {
	switch v {
	case V1:
		return GeneratorFunc(uuid.NewUUID), nil
	case V6, "":
		return GeneratorFunc(uuid.NewV6), nil
	case V7:
		return GeneratorFunc(uuid.NewV7), nil
	default:
		return nil, fmt.Errorf("identity: unsupported uuid version %q", v)
	}
}

// SetNodeID overrides the 6-byte node used by V1 and V6 identifiers.
// hexNode is 12 hex digits, optionally colon-separated
// (e.g. "0242ac120002" or "02:42:ac:12:00:02").
// The node is process-wide; call this once at startup.
func SetNodeID(hexNode string) error {
	b, err := hex.DecodeString(strings.ReplaceAll(hexNode, ":", ""))
	if err != nil {
		return fmt.Errorf("identity: node id %q: %w", hexNode, err)
	}
	if len(b) != 6 {
		return fmt.Errorf("identity: node id %q: want 6 bytes, got %d", hexNode, len(b))
	}
	if !uuid.SetNodeID(b) {
		return fmt.Errorf("identity: node id %q rejected", hexNode)
	}
	return nil
}
