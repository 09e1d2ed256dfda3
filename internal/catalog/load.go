package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

type catalogFile struct {
	Lessons []Lesson `json:"lessons"`
}

type loadOptions struct {
	log *zap.Logger
}

// Option configures catalog decoding.
type Option func(*loadOptions)

// WithLogger reports skipped exercises to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *loadOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// LoadFile reads a {"lessons": [...]} document. An empty path yields the built-in lessons.
func LoadFile(path string, opts ...Option) ([]Lesson, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Decode(data, opts...)
}

// Decode parses a catalog document. Malformed exercises are dropped with a
// warning; the rest of their lesson is kept.
func Decode(data []byte, opts ...Option) ([]Lesson, error) {
	o := loadOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(doc.Lessons) == 0 {
		return nil, fmt.Errorf("catalog has no lessons")
	}
	for i := range doc.Lessons {
		for _, err := range doc.Lessons[i].skipped {
			o.log.Warn("skipping malformed exercise", zap.Error(err))
		}
		doc.Lessons[i].skipped = nil
	}
	return doc.Lessons, nil
}
