// Package controller owns the in-memory task list and its countdowns, and
// keeps them consistent with the task store.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"tugas/internal/countdown"
	"tugas/internal/dialog"
	"tugas/internal/service"
)

// DefaultInterval is the countdown refresh period.
const DefaultInterval = time.Second

// ErrTaskNotFound is returned when an ID is not in the local list.
var ErrTaskNotFound = errors.New("task not found")

// Dialog collects form input and shows notifications.
type Dialog interface {
	Prompt(ctx context.Context, f dialog.Form) (dialog.Values, bool, error)
	Notify(ctx context.Context, n dialog.Notice) error
}

// Forms and notices shown by the controller.
var (
	addForm  = dialog.Form{Title: "Tambahkan Tugas Baru", Confirm: "Tambah", Cancel: "Batal"}
	editForm = dialog.Form{Title: "Edit Tugas", Confirm: "Simpan", Cancel: "Batal"}

	addedNotice   = dialog.Notice{Title: "Sukses!", Text: "Tugas berhasil ditambahkan.", Icon: "success"}
	updatedNotice = dialog.Notice{Title: "Berhasil!", Text: "Tugas berhasil diperbarui.", Icon: "success"}
	deletedNotice = dialog.Notice{Title: "Dihapus!", Text: "Tugas berhasil dihapus.", Icon: "success"}
)

// Input is the form content for creating or editing a task.
type Input struct {
	Text     string `json:"text" validate:"required"`
	Deadline string `json:"deadline" validate:"required"`
}

// Item is a task together with its countdown display.
type Item struct {
	service.Task
	Remaining string          `json:"remaining"`
	State     countdown.State `json:"state"`
}

// Controller is the single source of truth for the task list and the
// time-remaining strings. It is safe for concurrent use; store calls are
// made without holding the lock, so overlapping operations on the same
// task resolve last-write-wins.
type Controller struct {
	store    service.Store
	dialog   Dialog
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
	loc      *time.Location
	interval time.Duration

	mu        sync.RWMutex
	tasks     []service.Task
	remaining map[string]string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the wall clock used by Run.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLocation sets the zone deadlines are read in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// WithInterval sets the countdown refresh period.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// New creates a Controller over store. dlg collects form input and shows
// notifications.
func New(store service.Store, dlg Dialog, opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		store:     store,
		dialog:    dlg,
		validate:  validator.New(),
		log:       discard,
		now:       time.Now,
		loc:       time.Local,
		interval:  DefaultInterval,
		remaining: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "controller")
	return c
}

// Load replaces the local list with everything in the store.
// On failure the local list is left as it was.
func (c *Controller) Load(ctx context.Context) error {
	tasks, err := c.store.ListAll(ctx)
	if err != nil {
		c.log.WithError(err).Warn("load failed")
		return err
	}

	c.mu.Lock()
	c.tasks = append([]service.Task(nil), tasks...)
	c.mu.Unlock()

	c.log.WithField("count", len(tasks)).Debug("tasks loaded")
	return nil
}

// Add prompts for a new task and creates it.
// A cancelled or incomplete form returns a ValidationError and touches
// neither the store nor the local list.
func (c *Controller) Add(ctx context.Context) (service.Task, error) {
	if c.dialog == nil {
		return service.Task{}, &service.ValidationError{}
	}
	v, ok, err := c.dialog.Prompt(ctx, addForm)
	if err != nil {
		return service.Task{}, err
	}
	if !ok {
		return service.Task{}, &service.ValidationError{}
	}
	return c.Create(ctx, Input{Text: v.Text, Deadline: v.Deadline})
}

// Create stores a new, uncompleted task and appends it to the local list.
func (c *Controller) Create(ctx context.Context, in Input) (service.Task, error) {
	if err := c.check(in); err != nil {
		return service.Task{}, err
	}

	nt := service.NewTask{Text: in.Text, Completed: false, Deadline: in.Deadline}
	id, err := c.store.Create(ctx, nt)
	if err != nil {
		c.log.WithError(err).Warn("create failed")
		return service.Task{}, err
	}
	task := nt.WithID(id)

	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	c.mu.Unlock()

	c.log.WithField("id", id).Debug("task created")
	c.notify(ctx, addedNotice)
	return task, nil
}

// Edit prompts with the current values of task id and applies the answer.
func (c *Controller) Edit(ctx context.Context, id string) (service.Task, error) {
	current, ok := c.Find(id)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if c.dialog == nil {
		return service.Task{}, &service.ValidationError{}
	}

	f := editForm
	f.Text = current.Text
	f.Deadline = current.Deadline

	v, ok, err := c.dialog.Prompt(ctx, f)
	if err != nil {
		return service.Task{}, err
	}
	if !ok {
		return service.Task{}, &service.ValidationError{}
	}
	return c.Modify(ctx, id, Input{Text: v.Text, Deadline: v.Deadline})
}

// Modify overwrites the text and deadline of task id. The local entry is
// replaced only after the store accepted the write.
func (c *Controller) Modify(ctx context.Context, id string, in Input) (service.Task, error) {
	if err := c.check(in); err != nil {
		return service.Task{}, err
	}
	if _, ok := c.Find(id); !ok {
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	f := service.EditFields(in.Text, in.Deadline)
	if err := c.store.Update(ctx, id, f); err != nil {
		c.log.WithError(err).WithField("id", id).Warn("update failed")
		return service.Task{}, err
	}

	c.mu.Lock()
	var updated service.Task
	i := c.indexLocked(id)
	if i >= 0 {
		c.tasks[i] = f.Apply(c.tasks[i])
		updated = c.tasks[i]
	} else {
		// Deleted while the update was in flight.
		updated = f.Apply(service.Task{ID: id})
	}
	c.mu.Unlock()

	c.notify(ctx, updatedNotice)
	return updated, nil
}

// Toggle flips the completed flag of task id. The local flip happens
// first; if the store rejects it, the previous value is restored and the
// error returned.
func (c *Controller) Toggle(ctx context.Context, id string) (service.Task, error) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	want := !c.tasks[i].Completed
	c.tasks[i].Completed = want
	toggled := c.tasks[i]
	c.mu.Unlock()

	if err := c.store.Update(ctx, id, service.CompletedField(want)); err != nil {
		c.mu.Lock()
		// Leave it alone if another toggle has moved it on since.
		if j := c.indexLocked(id); j >= 0 && c.tasks[j].Completed == want {
			c.tasks[j].Completed = !want
		}
		c.mu.Unlock()
		c.log.WithError(err).WithField("id", id).Warn("toggle failed, reverted")
		return service.Task{}, err
	}

	c.log.WithFields(logrus.Fields{"id": id, "completed": want}).Debug("task toggled")
	return toggled, nil
}

// Delete removes task id from the store and then from the local list.
// If the store call fails nothing changes locally.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if _, ok := c.Find(id); !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.log.WithError(err).WithField("id", id).Warn("delete failed")
		return err
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	}
	delete(c.remaining, id)
	c.mu.Unlock()

	c.notify(ctx, deletedNotice)
	return nil
}

// Tick recomputes the countdown string of every task for now.
// Task data is never modified.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]string, len(c.tasks))
	for _, t := range c.tasks {
		next[t.ID] = countdown.Format(t.Deadline, now, c.loc)
	}
	c.remaining = next
}

// Run ticks every interval until ctx is done. onTick, if not nil, is
// called after each tick. The first tick happens one interval after start.
func (c *Controller) Run(ctx context.Context, onTick func()) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick(c.now())
			if onTick != nil {
				onTick()
			}
		}
	}
}

// Items returns a snapshot of the list with countdown displays.
func (c *Controller) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]Item, len(c.tasks))
	for i, t := range c.tasks {
		items[i] = c.itemLocked(t)
	}
	return items
}

// Item returns the display item for task id.
func (c *Controller) Item(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexLocked(id)
	if i < 0 {
		return Item{}, false
	}
	return c.itemLocked(c.tasks[i]), true
}

// Tasks returns a copy of the local list.
func (c *Controller) Tasks() []service.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]service.Task(nil), c.tasks...)
}

// Find returns the local task with the given ID.
func (c *Controller) Find(id string) (service.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexLocked(id)
	if i < 0 {
		return service.Task{}, false
	}
	return c.tasks[i], true
}

// Len returns the number of tasks in the local list.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Remaining returns the last countdown string for id and whether the
// task has been ticked yet.
func (c *Controller) Remaining(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.remaining[id]
	return s, ok
}

func (c *Controller) itemLocked(t service.Task) Item {
	rem, ticked := c.remaining[t.ID]
	return Item{
		Task:      t,
		Remaining: countdown.Text(rem, ticked),
		State:     countdown.StateOf(t, rem, ticked),
	}
}

func (c *Controller) indexLocked(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// check applies the presence rules to in.
func (c *Controller) check(in Input) error {
	err := c.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &service.ValidationError{}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Text":
			ve.Fields = append(ve.Fields, "text")
		case "Deadline":
			ve.Fields = append(ve.Fields, "deadline")
		}
	}
	return ve
}

func (c *Controller) notify(ctx context.Context, n dialog.Notice) {
	if c.dialog == nil {
		return
	}
	if err := c.dialog.Notify(ctx, n); err != nil {
		c.log.WithError(err).Debug("notify failed")
	}
}
