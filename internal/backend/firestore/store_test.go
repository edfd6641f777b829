package firestore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tugas/internal/service"
)

func TestUpdatesFor(t *testing.T) {
	updates := updatesFor(service.EditFields("Buy bread", "2025-01-02T09:00"))
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Path != "text" || updates[0].Value != "Buy bread" {
		t.Errorf("unexpected text update %+v", updates[0])
	}
	if updates[1].Path != "deadline" || updates[1].Value != "2025-01-02T09:00" {
		t.Errorf("unexpected deadline update %+v", updates[1])
	}

	updates = updatesFor(service.CompletedField(true))
	if len(updates) != 1 || updates[0].Path != "completed" || updates[0].Value != true {
		t.Errorf("unexpected completed update %+v", updates)
	}

	if len(updatesFor(service.Fields{})) != 0 {
		t.Error("expected no updates for empty fields")
	}
}

func TestDocumentTask(t *testing.T) {
	d := document{Text: "Buy milk", Completed: true, Deadline: "2025-01-01T10:00"}
	want := service.Task{ID: "abc", Text: "Buy milk", Completed: true, Deadline: "2025-01-01T10:00"}
	if got := d.task("abc"); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestWrapError(t *testing.T) {
	cases := []struct {
		err  error
		kind service.ErrorKind
	}{
		{status.Error(codes.NotFound, "no document"), service.KindNotFound},
		{status.Error(codes.PermissionDenied, "denied"), service.KindAuth},
		{status.Error(codes.Unauthenticated, "who"), service.KindAuth},
		{status.Error(codes.Unavailable, "down"), service.KindUnavailable},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), service.KindUnavailable},
		{errors.New("weird"), service.KindInternal},
	}
	for _, tc := range cases {
		err := wrapError("update", tc.err)
		if service.KindOf(err) != tc.kind {
			t.Errorf("%v: expected kind %v, got %v", tc.err, tc.kind, service.KindOf(err))
		}
	}
	if wrapError("list", nil) != nil {
		t.Error("expected nil for nil error")
	}
}
