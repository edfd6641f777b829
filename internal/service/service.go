// Package service defines the backend-agnostic interface for task storage.
package service

import "context"

// Store defines the operations a task backend provides over the "tasks"
// collection. Commands and the controller never import a backend SDK directly.
type Store interface {
	// ListAll returns every task in the collection.
	// No pagination; ordering is whatever the backend returns.
	ListAll(ctx context.Context) ([]Task, error)

	// Create inserts a new task and returns its generated ID.
	Create(ctx context.Context, task NewTask) (string, error)

	// Update overwrites only the fields set in f.
	// Returns a StoreError of KindNotFound if the task does not exist.
	Update(ctx context.Context, id string, f Fields) error

	// Delete removes a task. Deleting a missing task is not an error.
	Delete(ctx context.Context, id string) error
}
