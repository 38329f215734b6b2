package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shelf-cli/internal/model"
)

// ExportEventsJSONL writes the events matching f to path, one JSON object per line,
// oldest first. An existing file is refused.
func (s Store) ExportEventsJSONL(ctx context.Context, path string, f EventFilter) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("export events: missing destination")
	}
	if _, err := os.Stat(path); err == nil {
		return 0, fmt.Errorf("export events: %s already exists", path)
	}
	evs, err := s.ReadEvents(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	if err := WriteEventsJSONL(path, evs); err != nil {
		return 0, fmt.Errorf("export events: %w", err)
	}
	return len(evs), nil
}

func WriteEventsJSONL(path string, evs []model.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, ev := range evs {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadEventsJSONL reads an export back. Blank lines are skipped.
func ReadEventsJSONL(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []model.Event{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("parse events jsonl line %d: %w", line, err)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterEvents applies f to events already in memory, with ReadEvents semantics: the
// newest Limit matches, oldest first.
func FilterEvents(evs []model.Event, f EventFilter) []model.Event {
	entity := strings.TrimSpace(f.EntityID)
	out := make([]model.Event, 0, len(evs))
	for _, ev := range evs {
		if entity != "" && ev.EntityID != entity {
			continue
		}
		out = append(out, ev)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
