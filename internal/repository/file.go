// Package repository provides candidate and target sources for the engine.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/ranking"
)

type fileData struct {
	Candidates []*candidate.Profile `json:"candidates"`
	Targets    []*candidate.Target  `json:"targets"`
}

// File serves candidates and targets from a JSON document loaded once.
type File struct {
	candidates []*candidate.Profile
	targets    map[string]*candidate.Target
}

// LoadFile reads a JSON file with "candidates" and "targets" arrays.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read repository file: %w", err)
	}
	return ParseFile(raw)
}

func ParseFile(raw []byte) (*File, error) {
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode repository file: %w", err)
	}

	f := &File{targets: make(map[string]*candidate.Target, len(data.Targets))}
	seen := make(map[string]bool, len(data.Candidates))
	for i, c := range data.Candidates {
		if c == nil {
			continue
		}
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("candidate #%d: id is required", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("candidate %s: duplicate id", c.ID)
		}
		seen[c.ID] = true
		f.candidates = append(f.candidates, c)
	}
	for i, t := range data.Targets {
		if t == nil {
			continue
		}
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("target #%d: id is required", i)
		}
		if _, ok := f.targets[t.ID]; ok {
			return nil, fmt.Errorf("target %s: duplicate id", t.ID)
		}
		f.targets[t.ID] = t
	}
	return f, nil
}

// Candidates returns the candidates of the scope unit, or all of them when
// the scope names no unit.
func (f *File) Candidates(ctx context.Context, scope ranking.Scope) ([]*candidate.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(scope.UnitID)
	out := make([]*candidate.Profile, 0, len(f.candidates))
	for _, c := range f.candidates {
		if unit != "" && c.UnitID != unit {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *File) Target(ctx context.Context, id string) (*candidate.Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := f.targets[strings.TrimSpace(id)]
	if !ok {
		return nil, &ranking.NotFoundError{Kind: "target", ID: id}
	}
	copied := *t
	return &copied, nil
}

// Candidate looks up one candidate, e.g. the subject of a peers search.
func (f *File) Candidate(ctx context.Context, id string) (*candidate.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, c := range f.candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, &ranking.NotFoundError{Kind: "candidate", ID: id}
}

