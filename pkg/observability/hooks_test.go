package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Symmetry hooks
	s := NoopSymmetryHooks{}
	s.OnComputeStart(ctx, "bin_packing", 120)
	s.OnComputeComplete(ctx, "bin_packing", 14, 8.3, time.Second, nil)
	s.OnPropagate(ctx, 2, 1, false, time.Millisecond)
	s.OnSynthesize(ctx, "orbitope", 1)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/detect")
	h.OnResponse(ctx, "POST", "/v1/detect", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/detect", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Symmetry().(NoopSymmetryHooks); !ok {
		t.Error("Symmetry() should return NoopSymmetryHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customSymmetry := &testSymmetryHooks{}
	SetSymmetryHooks(customSymmetry)
	if Symmetry() != customSymmetry {
		t.Error("SetSymmetryHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Symmetry().(NoopSymmetryHooks); !ok {
		t.Error("Reset() should restore NoopSymmetryHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSymmetryHooks{}
	SetSymmetryHooks(custom)

	// Setting nil should be ignored
	SetSymmetryHooks(nil)

	if Symmetry() != custom {
		t.Error("SetSymmetryHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSymmetryHooks struct{ NoopSymmetryHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
