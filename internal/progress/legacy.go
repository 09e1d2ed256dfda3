package progress

import (
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/cangtype/internal/mastery"
)

// LegacyProgress is the single-profile blob written before profiles existed.
type LegacyProgress struct {
	Cursor          int                       `json:"cursor"`
	KnownUnits      []string                  `json:"knownUnits"`
	KnownCharacters []string                  `json:"knownCharacters"`
	Mastery         map[string]mastery.Record `json:"mastery"`
	Attempts        []AttemptRecord           `json:"attempts"`
	Summary         Summary                   `json:"summary"`
}

// DecodeLegacy parses a legacy blob.
func DecodeLegacy(data []byte) (LegacyProgress, error) {
	var old LegacyProgress
	if err := json.Unmarshal(data, &old); err != nil {
		return LegacyProgress{}, fmt.Errorf("decode legacy progress: %w", err)
	}
	return old, nil
}

// LegacyToProfile wraps a legacy blob into a default-named profile.
func LegacyToProfile(old LegacyProgress, id string) Profile {
	known := old.KnownUnits
	if len(known) == 0 {
		known = old.KnownCharacters
	}
	p := Profile{
		ID:   id,
		Name: DefaultProfileName,
		Progress: Progress{
			Cursor:     old.Cursor,
			KnownUnits: dedupe(known),
			Mastery:    old.Mastery,
			Attempts:   old.Attempts,
			Summary:    old.Summary,
		},
	}
	p.Progress = p.Progress.Clone()
	p.Progress.normalize()
	return p
}

func dedupe(units []string) []string {
	seen := make(map[string]struct{}, len(units))
	out := make([]string, 0, len(units))
	for _, u := range units {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
