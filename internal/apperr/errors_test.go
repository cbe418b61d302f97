package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("text model is required")

	if err.Error() != "text model is required" {
		t.Errorf("expected 'text model is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := errors.New("unknown model")
	err := apperr.NewValidationWrap("resolve \"gpt-9\"", inner)

	if err.Error() != "resolve \"gpt-9\": unknown model" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("batch size must be positive")

	wrapped := fmt.Errorf("build adapter: %w", original)
	doubleWrapped := fmt.Errorf("eval: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "batch size must be positive" {
		t.Errorf("expected 'batch size must be positive', got %q", ve.Message)
	}
	if !apperr.IsValidation(doubleWrapped) {
		t.Error("IsValidation should report true for wrapped validation errors")
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("connection refused")
	wrapped := fmt.Errorf("embed batch: %w", plain)

	if apperr.IsValidation(wrapped) {
		t.Fatal("IsValidation should be false for plain error chains")
	}
}

func TestIsValidation(t *testing.T) {
	errUnknownModel := errors.New("unknown model")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errUnknownModel, want: false},
		{name: "direct", err: apperr.NewValidationWrap("resolve", errUnknownModel), want: true},
		{name: "wrapped", err: fmt.Errorf("build: %w", apperr.NewValidationWrap("resolve", errUnknownModel)), want: true},
		{name: "joined", err: errors.Join(errors.New("tracer shutdown"), apperr.NewValidation("bad pooling")), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.IsValidation(tt.err); got != tt.want {
				t.Errorf("IsValidation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewValidationWrap_KeepsSentinelInChain(t *testing.T) {
	errUnknownModel := errors.New("unknown model")
	err := fmt.Errorf("eval: %w", apperr.NewValidationWrap("resolve \"gpt2\"", errUnknownModel))

	if !errors.Is(err, errUnknownModel) {
		t.Error("sentinel should be reachable through the validation wrapper")
	}
	if !apperr.IsValidation(err) {
		t.Error("IsValidation should report true for the same chain")
	}
}
