package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adanyl0v/go-todo-local/internal/models"
)

const DefaultStorageKey = "todo-app-data"

var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrImportNotArray = errors.New("import payload is not an array")
	ErrInvalidImport  = errors.New("invalid import payload")
	ErrPersistence    = errors.New("failed to persist tasks")
)

type TaskStore interface {
	// Initialize loads the persisted collection.
	//
	// Missing, corrupt or ill-formed data leaves the store empty and is
	// not an error. A failing backend read also leaves the store empty
	// and is returned as a *PersistError.
	Initialize(ctx context.Context) error

	// Add creates a task and puts it in front of the collection.
	//
	// It returns ErrEmptyTitle if the trimmed title is empty.
	Add(ctx context.Context, params AddTaskParams) (*models.Task, error)

	// Toggle flips the completion flag of the task with the given id.
	//
	// It returns a nil task and no error if the id is unknown.
	Toggle(ctx context.Context, id string) (*models.Task, error)

	// Update replaces the title and description of the task with the
	// given id.
	//
	// It returns ErrEmptyTitle if the trimmed title is empty and a nil
	// task and no error if the id is unknown.
	Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// Delete removes the task with the given id and reports whether it
	// existed.
	Delete(ctx context.Context, id string) (bool, error)

	// ClearCompleted removes every completed task and returns how many
	// tasks were removed.
	ClearCompleted(ctx context.Context) (int, error)

	// ImportAll replaces the whole collection with the JSON array in data.
	//
	// It returns ErrImportNotArray if data is not an array or an
	// *ImportError if any element is malformed. In both cases the
	// collection is left unchanged.
	ImportAll(ctx context.Context, data []byte) (int, error)

	// Snapshot returns a copy of the collection and its counts.
	Snapshot() models.Snapshot
}

type AddTaskParams struct {
	Title       string
	Description *string
}

type UpdateTaskParams struct {
	ID          string
	Title       string
	Description *string
}

// PersistError reports a failed backend read or write. The in-memory
// collection stays authoritative when it is returned.
type PersistError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// IsPersistError reports whether err only signals a persistence failure,
// meaning the operation itself succeeded.
func IsPersistError(err error) bool {
	var persistErr *PersistError
	return errors.As(err, &persistErr)
}

// ImportError describes the first malformed element of an import payload.
type ImportError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ImportError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidImport, e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("%v: element %d: %s", ErrInvalidImport, e.Index, e.Reason)
	}
	return fmt.Sprintf("%v: element %d: %s %s", ErrInvalidImport, e.Index, e.Field, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return ErrInvalidImport
}

// Clock supplies the timestamps written on tasks.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(func() time.Time {
	return time.Now().UTC()
})

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}
