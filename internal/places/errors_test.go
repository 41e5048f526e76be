package places

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsKind(t *testing.T) {
	err := errf(KindNotFound, "no places for %q", "atlantis")
	if !IsKind(err, KindNotFound) {
		t.Error("expected KindNotFound")
	}
	if IsKind(err, KindUpstream) {
		t.Error("kinds must not be interchangeable")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("plain errors have no kind")
	}

	// Kinds survive wrapping.
	wrapped := fmt.Errorf("tool failed: %w", err)
	if !IsKind(wrapped, KindNotFound) {
		t.Error("expected kind through wrapping")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := wrapf(KindUpstream, cause, "lookup %q", "cebu")
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if err.Error() != `lookup "cebu": connection refused` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
