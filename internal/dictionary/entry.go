// Package dictionary looks up per-character reference data behind a freshness cache.
package dictionary

import (
	"context"
	"errors"

	"github.com/verte-zerg/cangtype/internal/catalog"
)

// ErrNotFound is returned by a Source that has no data for a character.
var ErrNotFound = errors.New("dictionary entry not found")

// Entry is a sparse reference record for one character.
type Entry struct {
	Char        string              `json:"char"`
	Readings    []string            `json:"readings,omitempty"`
	Definitions []string            `json:"definitions,omitempty"`
	Codes       []string            `json:"codes,omitempty"`
	Components  []catalog.Component `json:"components,omitempty"`
}

// Empty reports whether the entry carries no data beyond the character.
func (e Entry) Empty() bool {
	return len(e.Readings) == 0 && len(e.Definitions) == 0 && len(e.Codes) == 0 && len(e.Components) == 0
}

// Source resolves a single character.
type Source interface {
	Lookup(ctx context.Context, char string) (Entry, error)
}
