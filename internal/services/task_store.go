package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-local/internal/models"
	"github.com/adanyl0v/go-todo-local/internal/storage"
)

type taskStoreImpl struct {
	logger  zerolog.Logger
	backend storage.Backend
	key     string
	clock   Clock

	mu    sync.Mutex
	tasks []models.Task
	// Every id handed out or loaded during the process lifetime.
	seen map[string]struct{}
}

func NewTaskStore(
	logger zerolog.Logger,
	backend storage.Backend,
	key string,
	clock Clock,
) TaskStore {
	if key == "" {
		key = DefaultStorageKey
	}
	if clock == nil {
		clock = SystemClock
	}
	return &taskStoreImpl{
		logger:  logger,
		backend: backend,
		key:     key,
		clock:   clock,
		tasks:   make([]models.Task, 0),
		seen:    make(map[string]struct{}),
	}
}

func (s *taskStoreImpl) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]models.Task, 0)

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().
				Str("key", s.key).
				Msg("no persisted tasks found")
			return nil
		}

		s.logger.Error().
			Err(err).
			Str("key", s.key).
			Msg("failed to read persisted tasks")
		return &PersistError{Op: "read", Key: s.key, Err: err}
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", s.key).
			Msg("discarded malformed persisted tasks")
		return nil
	}

	s.tasks = tasks
	s.remember(tasks)
	s.logger.Info().
		Str("key", s.key).
		Int("count", len(tasks)).
		Msg("loaded persisted tasks")
	return nil
}

func (s *taskStoreImpl) Add(ctx context.Context, params AddTaskParams) (*models.Task, error) {
	title, err := normalizeTitle(params.Title)
	if err != nil {
		s.logger.Debug().Msg("rejected task with empty title")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := s.clock.Now()
	task := models.Task{
		ID:          id,
		Title:       title,
		Description: cloneString(params.Description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tasks := make([]models.Task, 0, len(s.tasks)+1)
	tasks = append(tasks, task)
	s.tasks = append(tasks, s.tasks...)

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")

	created := task.Clone()
	return &created, s.persist(ctx)
}

func (s *taskStoreImpl) Toggle(ctx context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return nil, nil
	}

	task := &s.tasks[i]
	task.Completed = !task.Completed
	task.UpdatedAt = s.bump(task.UpdatedAt)

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("completed", task.Completed).
		Msg("toggled task")

	toggled := task.Clone()
	return &toggled, s.persist(ctx)
}

func (s *taskStoreImpl) Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	title, err := normalizeTitle(params.Title)
	if err != nil {
		s.logger.Debug().
			Str("task_id", params.ID).
			Msg("rejected update with empty title")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(params.ID)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", params.ID).
			Msg("task not found")
		return nil, nil
	}

	task := &s.tasks[i]
	task.Title = title
	task.Description = cloneString(params.Description)
	task.UpdatedAt = s.bump(task.UpdatedAt)

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")

	updated := task.Clone()
	return &updated, s.persist(ctx)
}

func (s *taskStoreImpl) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return false, nil
	}

	tasks := make([]models.Task, 0, len(s.tasks)-1)
	tasks = append(tasks, s.tasks[:i]...)
	s.tasks = append(tasks, s.tasks[i+1:]...)

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return true, s.persist(ctx)
}

func (s *taskStoreImpl) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := models.FilterActive.Apply(s.tasks)
	removed := len(s.tasks) - len(tasks)
	if removed == 0 {
		s.logger.Debug().Msg("no completed tasks to clear")
		return 0, nil
	}
	s.tasks = tasks

	s.logger.Info().
		Int("removed", removed).
		Msg("cleared completed tasks")
	return removed, s.persist(ctx)
}

func (s *taskStoreImpl) ImportAll(ctx context.Context, data []byte) (int, error) {
	tasks, err := decodeTasks(data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("rejected import")
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = tasks
	s.remember(tasks)

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("imported tasks")
	return len(tasks), s.persist(ctx)
}

func (s *taskStoreImpl) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := models.Snapshot{
		Tasks: make([]models.Task, len(s.tasks)),
	}
	for i := range s.tasks {
		snapshot.Tasks[i] = s.tasks[i].Clone()
		if s.tasks[i].Completed {
			snapshot.Completed++
		} else {
			snapshot.Active++
		}
	}
	return snapshot
}

// persist must be called with mu held.
func (s *taskStoreImpl) persist(ctx context.Context) error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to marshal tasks")
		return &PersistError{Op: "write", Key: s.key, Err: err}
	}

	err = s.backend.Set(ctx, s.key, data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("key", s.key).
			Int("bytes", len(data)).
			Msg("failed to persist tasks")
		return &PersistError{Op: "write", Key: s.key, Err: err}
	}
	s.logger.Debug().
		Str("key", s.key).
		Int("count", len(s.tasks)).
		Msg("persisted tasks")
	return nil
}

func (s *taskStoreImpl) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *taskStoreImpl) newID() (string, error) {
	for {
		taskUUID, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("failed to generate id: %w", err)
		}
		id := taskUUID.String()
		if _, ok := s.seen[id]; !ok {
			s.seen[id] = struct{}{}
			return id, nil
		}
	}
}

func (s *taskStoreImpl) remember(tasks []models.Task) {
	for i := range tasks {
		s.seen[tasks[i].ID] = struct{}{}
	}
}

// bump returns the new updatedAt, never earlier than prev.
func (s *taskStoreImpl) bump(prev time.Time) time.Time {
	now := s.clock.Now()
	if now.Before(prev) {
		return prev
	}
	return now
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
