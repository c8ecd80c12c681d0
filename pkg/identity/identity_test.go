package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

func TestIdentity_ZeroValueIsNull(t *testing.T) {
	var id Identity
	if !id.IsNull() {
		t.Fatal("expected zero Identity to be null")
	}
	if v, ok := id.Identifier(); ok || v != "" {
		t.Fatalf("expected (\"\", false), got (%q, %v)", v, ok)
	}
	if id.String() != "<null>" {
		t.Fatalf("unexpected String(): %q", id.String())
	}
}

func TestIdentity_SetIdentifier(t *testing.T) {
	t.Run("sets a null identifier", func(t *testing.T) {
		var id Identity
		if err := id.SetIdentifier("123e4567-e89b-12d3-a456-426614174000"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.ID() != "123e4567-e89b-12d3-a456-426614174000" {
			t.Fatalf("unexpected identifier %q", id.ID())
		}
	})

	t.Run("accepts any text before validation", func(t *testing.T) {
		var id Identity
		if err := id.SetIdentifier("not-a-uuid"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("second call fails and keeps the value", func(t *testing.T) {
		var id Identity
		_ = id.SetIdentifier("123e4567-e89b-12d3-a456-426614174000")
		err := id.SetIdentifier("deadbeef-0000-4000-8000-000000000000")
		if !errors.Is(err, ErrImmutableIdentifier) {
			t.Fatalf("expected ErrImmutableIdentifier, got %v", err)
		}
		if id.ID() != "123e4567-e89b-12d3-a456-426614174000" {
			t.Fatalf("identifier changed to %q", id.ID())
		}
	})

	t.Run("empty string counts as assigned", func(t *testing.T) {
		var id Identity
		_ = id.SetIdentifier("")
		if id.IsNull() {
			t.Fatal("expected explicit empty identifier to be non-null")
		}
		if err := id.SetIdentifier("x"); !errors.Is(err, ErrImmutableIdentifier) {
			t.Fatalf("expected ErrImmutableIdentifier, got %v", err)
		}
	})
}

func TestIdentity_Restore(t *testing.T) {
	id := Restore("123e4567-e89b-12d3-a456-426614174000")
	if id.IsNull() {
		t.Fatal("restored identity must be non-null")
	}
	if err := id.SetIdentifier("123e4567-e89b-12d3-a456-426614174001"); !errors.Is(err, ErrImmutableIdentifier) {
		t.Fatalf("expected ErrImmutableIdentifier, got %v", err)
	}
}

func TestIdentity_UUID(t *testing.T) {
	t.Run("null identifier", func(t *testing.T) {
		var id Identity
		u, ok, err := id.UUID()
		if err != nil || ok || u != uuid.Nil {
			t.Fatalf("expected (Nil, false, nil), got (%v, %v, %v)", u, ok, err)
		}
	})

	t.Run("parses and caches", func(t *testing.T) {
		id := Restore("123E4567-E89B-12D3-A456-426614174000")
		u1, ok, err := id.UUID()
		if err != nil || !ok {
			t.Fatalf("unexpected (%v, %v)", ok, err)
		}
		if !id.cached {
			t.Fatal("expected parse result to be cached")
		}
		u2, _, _ := id.UUID()
		if u1 != u2 {
			t.Fatalf("cached value differs: %v vs %v", u1, u2)
		}
		if u1.String() != "123e4567-e89b-12d3-a456-426614174000" {
			t.Fatalf("unexpected value %v", u1)
		}
	})

	t.Run("malformed text is surfaced", func(t *testing.T) {
		id := Restore("not-a-uuid")
		_, ok, err := id.UUID()
		if !ok {
			t.Fatal("expected ok=true for non-null identifier")
		}
		if !errors.Is(err, ErrMalformedIdentifier) {
			t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
		}
	})
}

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"lower case", "123e4567-e89b-12d3-a456-426614174000", false},
		{"upper case", "123E4567-E89B-12D3-A456-426614174000", false},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", false},
		{"not a uuid", "not-a-uuid", true},
		{"one digit short", "123e4567-e89b-12d3-a456-42661417400", true},
		{"one digit long", "123e4567-e89b-12d3-a456-4266141740000", true},
		{"no hyphens", "123e4567e89b12d3a456426614174000", true},
		{"braced", "{123e4567-e89b-12d3-a456-426614174000}", true},
		{"urn", "urn:uuid:123e4567-e89b-12d3-a456-426614174000", true},
		{"wrong separator", "123e4567_e89b_12d3_a456_426614174000", true},
		{"non-hex digit", "123e4567-e89b-12d3-a456-42661417400g", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCanonical(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCanonical(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedIdentifier) {
				t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
			}
		})
	}
}

func TestCanonical_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var u uuid.UUID
		copy(u[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "bytes"))

		s := u.String()
		if rapid.Bool().Draw(t, "upper") {
			s = strings.ToUpper(s)
		}

		got, err := Canonical(s)
		if err != nil {
			t.Fatalf("Canonical(%q): %v", s, err)
		}
		if got != strings.ToLower(s) {
			t.Fatalf("round trip: got %q, want %q", got, strings.ToLower(s))
		}
	})
}
