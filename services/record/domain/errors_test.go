package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrRecordNotFound,
		ErrRecordAlreadyExists,
		ErrInvalidRecordName,
		ErrParentNotFound,
		ErrInvalidParent,
		ErrRecordHasChildren,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v unexpectedly matches %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("get record: %w", ErrRecordNotFound)
	if !errors.Is(wrapped, ErrRecordNotFound) {
		t.Fatal("errors.Is must match wrapped ErrRecordNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidRecordName, errors.New("too long"))
	if !errors.Is(wrapped2, ErrInvalidRecordName) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidRecordName")
	}
}
