package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/cangtype/internal/catalog"
)

// CatalogSource answers lookups from the lesson catalog itself.
type CatalogSource struct {
	byChar map[string]Entry
}

// NewCatalogSource indexes every character exercise in lessons.
func NewCatalogSource(lessons []catalog.Lesson) *CatalogSource {
	byChar := map[string]Entry{}
	for _, l := range lessons {
		for _, ex := range l.Exercises {
			c, ok := ex.(catalog.Character)
			if !ok || c.Glyph == "" {
				continue
			}
			e := byChar[c.Glyph]
			e.Char = c.Glyph
			e.Definitions = appendUnique(e.Definitions, c.Meaning, c.MeaningAlt)
			if code := catalog.CodeFor(c); code != "" && !contains(e.Codes, code) {
				e.Codes = append(e.Codes, code)
				if len(e.Components) == 0 {
					e.Components = catalog.Decompose(code)
				}
			}
			byChar[c.Glyph] = e
		}
	}
	return &CatalogSource{byChar: byChar}
}

// Lookup implements Source.
func (s *CatalogSource) Lookup(_ context.Context, char string) (Entry, error) {
	e, ok := s.byChar[char]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, char)
	}
	return e, nil
}

// HTTPSource fetches entries as JSON from {baseURL}/{char}.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource returns a source backed by a remote dictionary service.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup implements Source.
func (s *HTTPSource) Lookup(ctx context.Context, char string) (Entry, error) {
	resp, err := s.request(ctx, s.baseURL+"/"+url.PathEscape(char))
	if err != nil {
		return Entry{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, char)
	case resp.StatusCode != http.StatusOK:
		return Entry{}, fmt.Errorf("unexpected dictionary status: %s", resp.Status)
	}

	var e Entry
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return Entry{}, fmt.Errorf("failed to decode dictionary response: %w", err)
	}
	e.Char = char
	return e, nil
}

func (s *HTTPSource) request(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// Chain tries each source in order and returns the first hit.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(ctx context.Context, char string) (Entry, error) {
	var lastErr error = fmt.Errorf("%w: %s", ErrNotFound, char)
	for _, s := range c {
		e, err := s.Lookup(ctx, char)
		if err == nil {
			return e, nil
		}
		lastErr = err
	}
	return Entry{}, lastErr
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || contains(list, v) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
