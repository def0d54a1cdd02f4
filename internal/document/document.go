// Package document encodes and decodes the persisted task document: a single
// JSON array of task records.
package document

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo-store/internal/domain"
)

//go:embed schema.json
var documentSchemaSource string

//go:embed task.schema.json
var taskSchemaSource string

const (
	documentSchemaURL = "todo-document.schema.json"
	taskSchemaURL     = "todo-task.schema.json"
)

var (
	schemaOnce     sync.Once
	documentSchema *jsonschema.Schema
	taskSchema     *jsonschema.Schema
	schemaErr      error
)

func compiledSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchemaSource)); err != nil {
			schemaErr = fmt.Errorf("add document schema: %w", err)
			return
		}
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaSource)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		if documentSchema, schemaErr = compiler.Compile(documentSchemaURL); schemaErr != nil {
			schemaErr = fmt.Errorf("compile document schema: %w", schemaErr)
			return
		}
		if taskSchema, schemaErr = compiler.Compile(taskSchemaURL); schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return documentSchema, taskSchema, schemaErr
}

// SkippedRecord is a document entry that could not be read as a task.
type SkippedRecord struct {
	Index int
	Err   error
}

func (s SkippedRecord) Error() string {
	return fmt.Sprintf("record %d: %v", s.Index, s.Err)
}

func parseValue(raw []byte) (interface{}, error) {
	var value interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after value")
	}
	return value, nil
}

// Validate checks that raw is a JSON array. Individual records are not checked.
func Validate(raw string) error {
	docSchema, _, err := compiledSchemas()
	if err != nil {
		return err
	}

	value, err := parseValue([]byte(raw))
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if err := docSchema.Validate(value); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}

// Decode reads a stored document. Only a document that is not a JSON array is
// an error; records that do not fit the task schema are left out and reported
// in skipped. The task slice is never nil.
func Decode(raw string) (tasks []domain.Task, skipped []SkippedRecord, err error) {
	if err := Validate(raw); err != nil {
		return []domain.Task{}, nil, err
	}
	_, recordSchema, err := compiledSchemas()
	if err != nil {
		return []domain.Task{}, nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return []domain.Task{}, nil, fmt.Errorf("decode document: %w", err)
	}

	tasks = make([]domain.Task, 0, len(records))
	for i, record := range records {
		task, err := decodeRecord(recordSchema, record)
		if err != nil {
			skipped = append(skipped, SkippedRecord{Index: i, Err: err})
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, skipped, nil
}

func decodeRecord(recordSchema *jsonschema.Schema, record json.RawMessage) (domain.Task, error) {
	value, err := parseValue(record)
	if err != nil {
		return domain.Task{}, err
	}
	if err := recordSchema.Validate(value); err != nil {
		return domain.Task{}, err
	}

	var task domain.Task
	if err := json.Unmarshal(record, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Encode serializes tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(data), nil
}
