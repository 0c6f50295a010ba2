package pkg

import (
	"errors"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "protoplan"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file, so it should not be empty.
	if strings.TrimSpace(Version) == "" {
		t.Error("Expected Version to be non-empty")
	}
}

func TestMakeErrorChain(t *testing.T) {
	inner := errors.New("inner")
	err := ErrParse.Wrap(inner)

	if !errors.Is(err, inner) {
		t.Error("Expected wrapped error to match errors.Is on inner")
	}

	want := "parse error: inner"
	if got := err.Error(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestUnwrapErrors(t *testing.T) {
	a := errors.New("a")
	b := MakeError(a).Wrapf("b")

	chain := UnwrapErrors(b)
	if len(chain) < 2 {
		t.Fatalf("Expected at least 2 errors in chain, got %d", len(chain))
	}

	if !errors.Is(b, a) {
		t.Error("Expected chain to contain innermost error")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if errors.Is(ErrParse, ErrDecode) {
		t.Error("Expected ErrParse and ErrDecode to be distinct")
	}
}
