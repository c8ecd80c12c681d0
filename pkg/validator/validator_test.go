package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgvalidator "github.com/cch1/uuid-primary-key/pkg/validator"
)

type parentRef struct {
	ParentID string `json:"parent_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,max=10"`
	Kind     string `validate:"omitempty,oneof=root leaf"`
	Depth    int    `json:"depth" validate:"gte=0,lte=8"`
	Note     string `json:"-" validate:"omitempty,alpha"`
}

const validUUID = "550e8400-e29b-41d4-a716-446655440000"

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   parentRef
		want map[string]string
	}{
		{
			name: "valid",
			in:   parentRef{ParentID: validUUID, Name: "hello"},
			want: map[string]string{},
		},
		{
			name: "required fields use json names",
			in:   parentRef{},
			want: map[string]string{"parent_id": "This field is required", "name": "This field is required"},
		},
		{
			name: "parameterised tags",
			in:   parentRef{ParentID: "not-a-uuid", Name: "12345678901", Kind: "branch", Depth: 9},
			want: map[string]string{
				"parent_id": "Must be a valid UUID",
				"name":      "Maximum length is 10",
				"Kind":      "Must be one of: root leaf",
				"depth":     "Must be less than or equal to 8",
			},
		},
		{
			name: "unlisted tag and ignored json name",
			in:   parentRef{ParentID: validUUID, Name: "ok", Depth: -1, Note: "42"},
			want: map[string]string{"depth": "Must be greater than or equal to 0", "Note": "Validation failed on 'alpha'"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.in))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	if m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie); len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

// --- ValidateRequest ---

type recordReq struct {
	ID   *string `json:"id"   validate:"omitempty,uuid_canonical"`
	Name string  `json:"name" validate:"required,min=1,max=255"`
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"id":"550e8400-e29b-41d4-a716-446655440000","name":"widget"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[recordReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.Name != "widget" {
		t.Errorf("unexpected Name: %q", req.Name)
	}
}

func TestValidateRequest_invalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad json"))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[recordReq](w, r)
	if ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON") {
		t.Errorf("expected 'Invalid JSON' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_missingField(t *testing.T) {
	body := `{"id":"550e8400-e29b-41d4-a716-446655440000"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[recordReq](w, r)
	if ok {
		t.Fatal("expected ok=false for missing name")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Validation failed") {
		t.Errorf("expected 'Validation failed' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_nonCanonicalID(t *testing.T) {
	for _, id := range []string{
		"not-a-uuid",
		"550e8400-e29b-41d4-a716-44665544000",    // 35 characters
		"{550e8400-e29b-41d4-a716-446655440000}", // braced
		"550e8400e29b41d4a716446655440000",       // no hyphens
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
	} {
		t.Run(id, func(t *testing.T) {
			body := `{"id":"` + id + `","name":"widget"}`
			w := httptest.NewRecorder()
			_, ok := pkgvalidator.ValidateRequest[recordReq](w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
			if ok {
				t.Fatal("expected ok=false")
			}
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"id":"can't be parsed"`) {
				t.Fatalf("expected id field error, got: %s", w.Body.String())
			}
		})
	}
}

func TestValidateRequest_absentIDIsAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	req, ok := pkgvalidator.ValidateRequest[recordReq](w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"widget"}`)))
	if !ok {
		t.Fatalf("expected ok=true, got: %s", w.Body.String())
	}
	if req.ID != nil {
		t.Fatalf("expected nil ID, got %q", *req.ID)
	}
}

func TestValidateRequest_bodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", 64) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	if _, ok := pkgvalidator.ValidateRequest[recordReq](w, r); ok {
		t.Fatal("expected ok=false")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}
