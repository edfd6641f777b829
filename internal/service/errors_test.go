package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestStoreError_KindHelpers(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewStoreError("update", KindNotFound, base))

	if !IsNotFound(err) {
		t.Error("expected IsNotFound to be true")
	}
	if IsAuth(err) {
		t.Error("expected IsAuth to be false")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("expected kind %v, got %v", KindNotFound, KindOf(err))
	}
	if !errors.Is(err, base) {
		t.Error("expected StoreError to unwrap to base error")
	}
	if KindOf(base) != KindInternal {
		t.Errorf("expected plain error to report %v", KindInternal)
	}
}

func TestNewStoreError_Nil(t *testing.T) {
	if err := NewStoreError("list", KindAuth, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStoreError_Message(t *testing.T) {
	err := NewStoreError("delete", KindUnavailable, errors.New("request timed out"))
	expected := "store delete: request timed out"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []string{"text", "deadline"}}
	if !errors.Is(err, ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}
	if err.Error() != "text and deadline required" {
		t.Errorf("unexpected message %q", err.Error())
	}

	cancelled := &ValidationError{}
	if cancelled.Error() != "input cancelled" {
		t.Errorf("unexpected message %q", cancelled.Error())
	}
}

func TestFields_Apply(t *testing.T) {
	task := Task{ID: "1", Text: "Buy milk", Deadline: "2025-01-01T10:00"}

	got := EditFields("Buy bread", "2025-01-02T09:30").Apply(task)
	if got.Text != "Buy bread" || got.Deadline != "2025-01-02T09:30" || got.Completed {
		t.Errorf("unexpected edit result: %+v", got)
	}

	got = CompletedField(true).Apply(task)
	if !got.Completed || got.Text != "Buy milk" {
		t.Errorf("unexpected toggle result: %+v", got)
	}

	if !(Fields{}).Empty() {
		t.Error("expected zero Fields to be empty")
	}
}
