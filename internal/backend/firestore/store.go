// Package firestore implements service.Store on a Cloud Firestore collection.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tugas/internal/config"
	"tugas/internal/service"
)

// APITimeout is the timeout for API calls.
const APITimeout = 5 * time.Second

// Field names of a task document.
const (
	fieldText      = "text"
	fieldCompleted = "completed"
	fieldDeadline  = "deadline"
)

// document is the stored shape of a task. The document ID is the task ID.
type document struct {
	Text      string `firestore:"text"`
	Completed bool   `firestore:"completed"`
	Deadline  string `firestore:"deadline"`
}

// Store implements service.Store over one collection.
type Store struct {
	client *firestore.Client
	coll   *firestore.CollectionRef
}

// New connects to the project and collection named in cfg.
// Credentials come from cfg.CredentialsFile or application defaults.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore: project ID not set (TUGAS_PROJECT_ID)")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return NewWithClient(client, cfg.Collection), nil
}

// NewWithClient wraps an existing client (for the emulator and tests).
func NewWithClient(client *firestore.Client, collection string) *Store {
	if collection == "" {
		collection = config.DefaultCollection
	}
	return &Store{client: client, coll: client.Collection(collection)}
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ListAll returns every document in the collection.
func (s *Store) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	snaps, err := s.coll.Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapError("list", err)
	}

	result := make([]service.Task, 0, len(snaps))
	for _, snap := range snaps {
		var d document
		if err := snap.DataTo(&d); err != nil {
			return nil, service.NewStoreError("list", service.KindInternal, fmt.Errorf("decode %s: %w", snap.Ref.ID, err))
		}
		result = append(result, d.task(snap.Ref.ID))
	}
	return result, nil
}

// Create adds a document and returns its generated ID.
func (s *Store) Create(ctx context.Context, nt service.NewTask) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	ref, _, err := s.coll.Add(ctx, document{Text: nt.Text, Completed: nt.Completed, Deadline: nt.Deadline})
	if err != nil {
		return "", wrapError("create", err)
	}
	return ref.ID, nil
}

// Update writes only the supplied fields. A missing document is an error.
func (s *Store) Update(ctx context.Context, id string, f service.Fields) error {
	updates := updatesFor(f)
	if len(updates) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := s.coll.Doc(id).Update(ctx, updates); err != nil {
		return wrapError("update", err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := s.coll.Doc(id).Delete(ctx); err != nil {
		return wrapError("delete", err)
	}
	return nil
}

func (d document) task(id string) service.Task {
	return service.Task{ID: id, Text: d.Text, Completed: d.Completed, Deadline: d.Deadline}
}

func updatesFor(f service.Fields) []firestore.Update {
	var updates []firestore.Update
	if f.Text != nil {
		updates = append(updates, firestore.Update{Path: fieldText, Value: *f.Text})
	}
	if f.Completed != nil {
		updates = append(updates, firestore.Update{Path: fieldCompleted, Value: *f.Completed})
	}
	if f.Deadline != nil {
		updates = append(updates, firestore.Update{Path: fieldDeadline, Value: *f.Deadline})
	}
	return updates
}

// wrapError maps gRPC status codes to store error kinds.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.NewStoreError(op, service.KindUnavailable, fmt.Errorf("request timed out"))
	}

	switch status.Code(err) {
	case codes.NotFound:
		return service.NewStoreError(op, service.KindNotFound, fmt.Errorf("not found"))
	case codes.Unauthenticated, codes.PermissionDenied:
		return service.NewStoreError(op, service.KindAuth, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return service.NewStoreError(op, service.KindUnavailable, err)
	}
	return service.NewStoreError(op, service.KindInternal, err)
}
