package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeColorParse, "bad hex")

	if err == nil {
		t.Fatal("New should return non-nil error")
	}
	if err.Code != ErrCodeColorParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeColorParse)
	}
	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}
	if len(err.Stack) == 0 {
		t.Error("Stack should be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeCodec, "unknown command %q", "blob")
	if err.Message != `unknown command "blob"` {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("broken pipe")
	err := Wrap(underlying, ErrCodeFlush, "write frame")

	if err.Underlying != underlying {
		t.Error("Underlying should be preserved")
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should see the underlying error")
	}
	if !strings.Contains(err.Error(), "broken pipe") {
		t.Error("Error string should include underlying error")
	}
}

func TestWrap_Nil(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "test"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestError_ContextSorted(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "invalid").
		WithContext("field", "fps").
		WithContext("value", -1)

	got := err.Error()
	want := "[CONFIG_INVALID] invalid {field: fps, value: -1}"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsCode_WrappedChain(t *testing.T) {
	base := New(ErrCodeUnbalancedStack, "pop without push")
	wrapped := fmt.Errorf("paint: %w", base)

	if !IsCode(wrapped, ErrCodeUnbalancedStack) {
		t.Error("IsCode should search the chain")
	}
	if IsCode(wrapped, ErrCodeFlush) {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(nil, ErrCodeFlush) {
		t.Error("IsCode(nil) should be false")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("GetCode(plain) = %q", got)
	}
	if got := GetCode(New(ErrCodeBackendInit, "x")); got != ErrCodeBackendInit {
		t.Errorf("GetCode = %q", got)
	}
}

func TestWithRemediation(t *testing.T) {
	err := New(ErrCodeConfigLoad, "missing").WithRemediation("run gridkit caps")
	err.WithRemediation()
	if len(err.Remediation) != 1 {
		t.Fatalf("Remediation = %v", err.Remediation)
	}
}

func TestStackTrace(t *testing.T) {
	err := New(ErrCodeInternal, "x")
	if !strings.Contains(err.StackTrace(), "TestStackTrace") {
		t.Errorf("stack trace missing caller:\n%s", err.StackTrace())
	}
}
