package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/adanyl0v/go-todo-local/internal/models"
)

// Field names of the persisted task form. Keys are matched exactly.
const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCompleted   = "completed"
	fieldCreatedAt   = "createdAt"
	fieldUpdatedAt   = "updatedAt"
)

// decodeTasks parses a JSON array of tasks and validates every element.
// It never returns a partially decoded collection.
func decodeTasks(data []byte) ([]models.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		if !json.Valid(data) {
			return nil, &ImportError{Index: -1, Reason: "payload is not valid JSON"}
		}
		return nil, ErrImportNotArray
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &ImportError{Index: -1, Reason: err.Error()}
	}

	tasks := make([]models.Task, 0, len(elements))
	ids := make(map[string]struct{}, len(elements))
	for i, element := range elements {
		task, err := decodeTask(i, element)
		if err != nil {
			return nil, err
		}
		if _, ok := ids[task.ID]; ok {
			return nil, &ImportError{Index: i, Field: "id", Reason: "is duplicated"}
		}
		ids[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func decodeTask(i int, element json.RawMessage) (models.Task, error) {
	element = bytes.TrimSpace(element)
	if len(element) == 0 || element[0] != '{' {
		return models.Task{}, &ImportError{Index: i, Reason: "is not an object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil {
		return models.Task{}, &ImportError{Index: i, Reason: err.Error()}
	}

	var (
		id, title, createdAtRaw, updatedAtRaw string
		completed                             bool
	)
	for _, f := range []struct {
		name string
		dst  any
	}{
		{fieldID, &id},
		{fieldTitle, &title},
		{fieldCompleted, &completed},
		{fieldCreatedAt, &createdAtRaw},
		{fieldUpdatedAt, &updatedAtRaw},
	} {
		if err := decodeField(i, fields, f.name, f.dst); err != nil {
			return models.Task{}, err
		}
	}

	if id == "" {
		return models.Task{}, &ImportError{Index: i, Field: fieldID, Reason: "is empty"}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, &ImportError{Index: i, Field: fieldTitle, Reason: "is empty"}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtRaw)
	if err != nil {
		return models.Task{}, &ImportError{Index: i, Field: fieldCreatedAt, Reason: "is not an ISO-8601 timestamp"}
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedAtRaw)
	if err != nil {
		return models.Task{}, &ImportError{Index: i, Field: fieldUpdatedAt, Reason: "is not an ISO-8601 timestamp"}
	}
	if updatedAt.Before(createdAt) {
		return models.Task{}, &ImportError{Index: i, Field: fieldUpdatedAt, Reason: "is before createdAt"}
	}

	description, err := decodeDescription(fields[fieldDescription])
	if err != nil {
		return models.Task{}, &ImportError{Index: i, Field: fieldDescription, Reason: "has wrong type"}
	}

	return models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// decodeField decodes the required field name into dst.
func decodeField(i int, fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return missingField(i, name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ImportError{Index: i, Field: name, Reason: "has wrong type"}
	}
	return nil
}

// decodeDescription treats an absent or null description as absent.
func decodeDescription(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var description string
	if err := json.Unmarshal(raw, &description); err != nil {
		return nil, err
	}
	return &description, nil
}

func missingField(i int, field string) error {
	return &ImportError{Index: i, Field: field, Reason: "is missing"}
}
