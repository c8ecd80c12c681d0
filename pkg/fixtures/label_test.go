package fixtures

import (
	"regexp"
	"testing"

	"pgregory.net/rapid"
)

func TestFromLabel_Layout(t *testing.T) {
	got := FromLabelWith(func(string) uint32 { return 0x01020304 }, "anything").String()
	want := "01020304-0000-4000-8000-cccccccccccc"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestFromLabel_Determinism(t *testing.T) {
	alice1 := FromLabel("alice")
	alice2 := FromLabel("alice")
	if alice1 != alice2 {
		t.Fatalf("FromLabel(alice) not stable: %s vs %s", alice1, alice2)
	}
	if FromLabel("alice") == FromLabel("bob") {
		t.Fatal("expected different UUIDs for alice and bob")
	}
}

// TestFromLabel_KnownValue pins the derivation so identifiers stay stable
// across processes and releases.
func TestFromLabel_KnownValue(t *testing.T) {
	// crc32("alice") = 0x278ebc47, below MaxID.
	if got := CRC32Label("alice"); got != 0x278ebc47 {
		t.Fatalf("CRC32Label(alice) = %#x", got)
	}
	// crc32("bob") = 0xf5cbb140, reduced modulo MaxID.
	if got := CRC32Label("bob"); got != 0x35cbb143 {
		t.Fatalf("CRC32Label(bob) = %#x", got)
	}
	if got, want := FromLabel("alice").String(), "278ebc47-0000-4000-8000-cccccccccccc"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

var labelPattern = regexp.MustCompile(`^[0-9a-f]{8}-0000-4000-8000-cccccccccccc$`)

func TestFromLabel_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.String().Draw(t, "label")

		u := FromLabel(label)
		if u != FromLabel(label) {
			t.Fatalf("FromLabel(%q) is not deterministic", label)
		}
		if !labelPattern.MatchString(u.String()) {
			t.Fatalf("FromLabel(%q) = %s has unexpected layout", label, u)
		}
		if CRC32Label(label) >= MaxID {
			t.Fatalf("CRC32Label(%q) exceeds MaxID", label)
		}
	})
}

func TestIdentify(t *testing.T) {
	t.Run("integer mode", func(t *testing.T) {
		if got, want := Identify("alice", false), "663665735"; got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})
	t.Run("uuid mode", func(t *testing.T) {
		if got, want := Identify("alice", true), FromLabel("alice").String(); got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})
}
