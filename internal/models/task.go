package models

import (
	"fmt"
	"time"
)

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Snapshot is a copy of the task collection together with its derived
// counts. Mutating it does not affect the store it came from.
type Snapshot struct {
	Tasks     []Task `json:"tasks"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
}

// Filter selects which tasks of a snapshot are shown.
type Filter string

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("unknown filter: %s", s)
	}
}

func (f Filter) Match(task *Task) bool {
	switch f {
	case FilterActive:
		return !task.Completed
	case FilterCompleted:
		return task.Completed
	default:
		return true
	}
}

// Apply returns the tasks matching the filter in their original order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		if f.Match(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

func (t *Task) Clone() Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return c
}
