package render

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailureSeverity(t *testing.T) {
	cause := errors.New("device lost")

	fatal := Fatal("create texture", cause)
	if !IsFatal(fatal) {
		t.Error("Expected fatal failure to be reported as fatal")
	}
	if !errors.Is(fatal, cause) {
		t.Error("Expected fatal failure to unwrap to its cause")
	}

	wrapped := fmt.Errorf("failed to register texture 3: %w", fatal)
	if !IsFatal(wrapped) {
		t.Error("Expected wrapped fatal failure to stay fatal")
	}

	recoverable := Recoverable("copy", cause)
	if IsFatal(recoverable) {
		t.Error("Expected recoverable failure not to be fatal")
	}

	if IsFatal(cause) {
		t.Error("Expected plain error not to be fatal")
	}
}

func TestFailureNilPassthrough(t *testing.T) {
	if err := Fatal("present", nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	if err := Recoverable("clear", nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestFailureMessage(t *testing.T) {
	err := Recoverable("clear", errors.New("busy"))
	expected := "clear failed (recoverable): busy"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
}

func TestParseKey(t *testing.T) {
	for _, k := range Keys() {
		parsed, ok := ParseKey(k.String())
		if !ok {
			t.Errorf("Expected key %s to parse", k)
			continue
		}
		if parsed != k {
			t.Errorf("Expected %v, got %v", k, parsed)
		}
	}

	if _, ok := ParseKey("f13"); ok {
		t.Error("Expected unknown key name to be rejected")
	}
}
