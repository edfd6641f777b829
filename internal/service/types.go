package service

// Task represents a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Deadline  string `json:"deadline"` // local date-time, e.g. "2025-01-01T10:00"
}

// NewTask is a task that has not been assigned an ID yet.
type NewTask struct {
	Text      string
	Completed bool
	Deadline  string
}

// WithID returns the stored form of t under the given ID.
func (t NewTask) WithID(id string) Task {
	return Task{ID: id, Text: t.Text, Completed: t.Completed, Deadline: t.Deadline}
}

// Fields is a partial update. Nil fields are left untouched.
type Fields struct {
	Text      *string
	Completed *bool
	Deadline  *string
}

// EditFields returns an update for the text and deadline of a task.
func EditFields(text, deadline string) Fields {
	return Fields{Text: &text, Deadline: &deadline}
}

// CompletedField returns an update for the completion flag only.
func CompletedField(done bool) Fields {
	return Fields{Completed: &done}
}

// Empty reports whether f updates nothing.
func (f Fields) Empty() bool {
	return f.Text == nil && f.Completed == nil && f.Deadline == nil
}

// Apply returns t with the fields of f written over it.
func (f Fields) Apply(t Task) Task {
	if f.Text != nil {
		t.Text = *f.Text
	}
	if f.Completed != nil {
		t.Completed = *f.Completed
	}
	if f.Deadline != nil {
		t.Deadline = *f.Deadline
	}
	return t
}
