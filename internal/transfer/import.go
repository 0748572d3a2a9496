package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxImportSize bounds the size of an import file.
const MaxImportSize = 5 << 20

var (
	ErrNotArray     = errors.New("invalid JSON format: expected an array of tasks")
	ErrImportTooBig = errors.New("import file is too large")
)

// ReadImport reads an import file and checks that it holds a JSON array.
// The returned bytes are meant for TaskStore.ImportAll, which validates
// the elements.
func ReadImport(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	if len(data) > MaxImportSize {
		return nil, ErrImportTooBig
	}

	var parsed any
	if err = json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if _, ok := parsed.([]any); !ok {
		return nil, ErrNotArray
	}
	return bytes.TrimSpace(data), nil
}
