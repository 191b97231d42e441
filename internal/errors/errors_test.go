package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "ErrEmptyCatalog is recognized",
			err:      ErrEmptyCatalog,
			target:   ErrEmptyCatalog,
			expected: true,
		},
		{
			name:     "Wrapped ErrEmptyCatalog is recognized",
			err:      fmt.Errorf("load catalog: %w", ErrEmptyCatalog),
			target:   ErrEmptyCatalog,
			expected: true,
		},
		{
			name:     "Joined ErrNoMessages is recognized",
			err:      errors.Join(ErrNoMessages, errors.New("additional context")),
			target:   ErrNoMessages,
			expected: true,
		},
		{
			name:     "Different sentinel does not match",
			err:      ErrMissingCredential,
			target:   ErrMissingChannels,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("topics[0].code", "code is required")

	if err.Field != "topics[0].code" {
		t.Errorf("Field = %q", err.Field)
	}
	want := "validation failed on topics[0].code: code is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var verr *ValidationError
	wrapped := fmt.Errorf("catalog: %w", err)
	if !errors.As(wrapped, &verr) {
		t.Error("errors.As failed to find ValidationError")
	}
}

func TestDeliveryError(t *testing.T) {
	cause := errors.New("channel_not_found")

	t.Run("with reason", func(t *testing.T) {
		err := NewDeliveryError("C123", "send_error", cause)
		want := "delivery error (channel=C123, reason=send_error): channel_not_found"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("without reason", func(t *testing.T) {
		err := NewDeliveryError("C123", "", cause)
		want := "delivery error (channel=C123): channel_not_found"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("unwraps to cause", func(t *testing.T) {
		err := NewDeliveryError("C123", "send_error", cause)
		if !errors.Is(err, cause) {
			t.Error("DeliveryError does not unwrap to its cause")
		}
	})

	t.Run("found through errors.As", func(t *testing.T) {
		wrapped := fmt.Errorf("broadcast: %w", NewDeliveryError("C123", "timeout", cause))
		var derr *DeliveryError
		if !errors.As(wrapped, &derr) {
			t.Fatal("errors.As failed to find DeliveryError")
		}
		if derr.Reason != "timeout" {
			t.Errorf("Reason = %q, want timeout", derr.Reason)
		}
	})
}
