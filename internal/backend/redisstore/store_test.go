package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"tugas/internal/service"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewWithClient(client, "test")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s, mr
}

func TestStore_RoundTripInInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id1, err := s.Create(ctx, service.NewTask{Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id2, err := s.Create(ctx, service.NewTask{Text: "Buy eggs", Deadline: "2024-01-01T10:00"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id1 == id2 {
		t.Fatal("expected distinct IDs")
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	if all[0].ID != id1 || all[1].ID != id2 {
		t.Errorf("expected insertion order, got %+v", all)
	}
	want := service.Task{ID: id1, Text: "Buy milk", Deadline: "2025-01-01T10:00"}
	if all[0] != want {
		t.Errorf("expected %+v, got %+v", want, all[0])
	}
}

func TestStore_UpdateOnlySuppliedFields(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Create(ctx, service.NewTask{Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err := s.Update(ctx, id, service.CompletedField(true)); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := mr.HGet("test:task:"+id, "completed"); got != "true" {
		t.Errorf("expected completed=true, got %q", got)
	}
	if got := mr.HGet("test:task:"+id, "text"); got != "Buy milk" {
		t.Errorf("expected text untouched, got %q", got)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Update(context.Background(), "nope", service.CompletedField(true))
	if !service.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStore_UpdateAfterDeleteLeavesNoHash(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Create(ctx, service.NewTask{Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	err := s.Update(ctx, id, service.EditFields("Buy bread", "2025-01-02T10:00"))
	if !service.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if mr.Exists("test:task:" + id) {
		t.Error("expected no hash to be written for a deleted task")
	}
}

func TestStore_UpdateEditFields(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Create(ctx, service.NewTask{Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err := s.Update(ctx, id, service.EditFields("Buy bread", "2025-01-02T10:00")); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := mr.HGet("test:task:"+id, "text"); got != "Buy bread" {
		t.Errorf("expected %q, got %q", "Buy bread", got)
	}
	if got := mr.HGet("test:task:"+id, "deadline"); got != "2025-01-02T10:00" {
		t.Errorf("expected %q, got %q", "2025-01-02T10:00", got)
	}
	if got := mr.HGet("test:task:"+id, "completed"); got != "false" {
		t.Errorf("expected completed untouched, got %q", got)
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Create(ctx, service.NewTask{Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Errorf("expected repeated delete to succeed, got %v", err)
	}

	all, _ := s.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty store, got %+v", all)
	}
}

func TestStore_Unavailable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.ListAll(context.Background())
	if service.KindOf(err) != service.KindUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}
}
