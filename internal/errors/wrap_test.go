package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	w := NewWrapper("catalog", "load_catalog")
	cause := errors.New("connection refused")

	err := w.Wrap(cause, "failed to fetch catalog")
	if err == nil {
		t.Fatal("expected wrapped error")
	}

	want := "[catalog:load_catalog] failed to fetch catalog: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, cause) {
		t.Error("wrapped error does not unwrap to cause")
	}
}

func TestWrapNil(t *testing.T) {
	w := NewWrapper("catalog", "load_catalog")

	if err := w.Wrap(nil, "message"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := w.Wrapf(nil, "message %d", 1); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestWrapf(t *testing.T) {
	w := NewWrapper("dispatch", "broadcast")
	cause := errors.New("timeout")

	err := w.Wrapf(cause, "channel %s failed", "C123")

	var wrapped *WrappedError
	if !errors.As(err, &wrapped) {
		t.Fatal("expected WrappedError")
	}
	if wrapped.Message != "channel C123 failed" {
		t.Errorf("Message = %q", wrapped.Message)
	}
	if wrapped.Module != "dispatch" || wrapped.Operation != "broadcast" {
		t.Errorf("context = %s:%s", wrapped.Module, wrapped.Operation)
	}
}

func TestGetMessage(t *testing.T) {
	w := NewWrapper("rotation", "pick_topic")
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"wrapped error", w.Wrap(cause, "selection failed"), "selection failed"},
		{"plain error", cause, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetMessage(tt.err); got != tt.want {
				t.Errorf("GetMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
