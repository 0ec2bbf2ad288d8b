package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := New(ErrLibraryNotFound, "Device:R")

	if !Is(err, ErrLibraryNotFound) {
		t.Error("expected ErrLibraryNotFound")
	}
	if Is(err, ErrPropertyNotFound) {
		t.Error("unexpected ErrPropertyNotFound")
	}
	if got := err.Error(); got != "library not found: Device:R" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("netlist: %w", New(ErrSpiceModelNotFound, "TL072"))

	if !errors.Is(err, ErrSpiceModelNotFound) {
		t.Error("kind lost through fmt.Errorf")
	}
	if got := Subject(err); got != "TL072" {
		t.Errorf("Subject() = %q, want TL072", got)
	}
}

func TestWrapCause(t *testing.T) {
	err := Wrap(ErrSpiceModelNotFound, "BC547", fs.ErrPermission)

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("cause not reachable")
	}
	if !errors.Is(err, ErrSpiceModelNotFound) {
		t.Error("kind not reachable")
	}
}

func TestSubjectOfPlainError(t *testing.T) {
	if got := Subject(errors.New("boom")); got != "" {
		t.Errorf("Subject() = %q, want empty", got)
	}
}
