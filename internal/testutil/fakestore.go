// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tugas/internal/dialog"
	"tugas/internal/service"
)

// ErrNotFound is the cause of KindNotFound errors from FakeStore.
var ErrNotFound = errors.New("not found")

// Call records one FakeStore operation.
type Call struct {
	Op     string // "list", "create", "update", "delete"
	ID     string
	Task   service.NewTask
	Fields service.Fields
}

// FakeStore is an in-memory implementation of service.Store for testing.
// IDs are "task-1", "task-2", ... unless NextIDs supplies them.
type FakeStore struct {
	mu    sync.Mutex
	tasks []service.Task
	calls []Call
	seq   int

	// NextIDs are handed out by Create before generated IDs.
	NextIDs []string

	// Error injection for testing
	ListAllErr error
	CreateErr  error
	UpdateErr  error
	DeleteErr  error
}

// NewFakeStore creates a FakeStore holding tasks.
func NewFakeStore(tasks ...service.Task) *FakeStore {
	return &FakeStore{tasks: append([]service.Task(nil), tasks...)}
}

// AddTask puts a task straight into the store.
func (f *FakeStore) AddTask(id, text, deadline string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Text: text, Completed: completed, Deadline: deadline})
}

// Snapshot returns the stored tasks.
func (f *FakeStore) Snapshot() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Get returns a stored task by ID.
func (f *FakeStore) Get(id string) (service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Calls returns the recorded operations in order.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded operations named op.
func (f *FakeStore) CallsTo(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ListAll implements service.Store.
func (f *FakeStore) ListAll(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "list"})
	if f.ListAllErr != nil {
		return nil, service.NewStoreError("list", service.KindUnavailable, f.ListAllErr)
	}
	return append([]service.Task(nil), f.tasks...), nil
}

// Create implements service.Store.
func (f *FakeStore) Create(ctx context.Context, t service.NewTask) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "create", Task: t})
	if f.CreateErr != nil {
		return "", service.NewStoreError("create", service.KindUnavailable, f.CreateErr)
	}

	var id string
	if len(f.NextIDs) > 0 {
		id, f.NextIDs = f.NextIDs[0], f.NextIDs[1:]
	} else {
		f.seq++
		id = fmt.Sprintf("task-%d", f.seq)
	}
	f.tasks = append(f.tasks, t.WithID(id))
	return id, nil
}

// Update implements service.Store.
func (f *FakeStore) Update(ctx context.Context, id string, fields service.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Fields: fields})
	if f.UpdateErr != nil {
		return service.NewStoreError("update", service.KindUnavailable, f.UpdateErr)
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = fields.Apply(t)
			return nil
		}
	}
	return service.NewStoreError("update", service.KindNotFound, ErrNotFound)
}

// Delete implements service.Store.
func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return service.NewStoreError("delete", service.KindUnavailable, f.DeleteErr)
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// FakeDialog answers forms from a queue and records what it was shown.
type FakeDialog struct {
	mu      sync.Mutex
	answers []Answer
	forms   []dialog.Form
	notices []dialog.Notice

	PromptErr error
}

// Answer is one queued response to a form. OK false means cancelled.
type Answer struct {
	Values dialog.Values
	OK     bool
}

// NewFakeDialog creates a FakeDialog that gives answers in order and
// cancels once they run out.
func NewFakeDialog(answers ...Answer) *FakeDialog {
	return &FakeDialog{answers: answers}
}

// Submit is shorthand for a confirmed answer.
func Submit(text, deadline string) Answer {
	return Answer{Values: dialog.Values{Text: text, Deadline: deadline}, OK: true}
}

// Prompt implements the controller's dialog.
func (d *FakeDialog) Prompt(ctx context.Context, f dialog.Form) (dialog.Values, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forms = append(d.forms, f)
	if d.PromptErr != nil {
		return dialog.Values{}, false, d.PromptErr
	}
	if len(d.answers) == 0 {
		return dialog.Values{}, false, nil
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a.Values, a.OK, nil
}

// Notify implements the controller's dialog.
func (d *FakeDialog) Notify(ctx context.Context, n dialog.Notice) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, n)
	return nil
}

// Forms returns the forms shown so far.
func (d *FakeDialog) Forms() []dialog.Form {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dialog.Form(nil), d.forms...)
}

// Notices returns the notices shown so far.
func (d *FakeDialog) Notices() []dialog.Notice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dialog.Notice(nil), d.notices...)
}
