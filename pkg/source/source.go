package source

import (
	"context"
	"fmt"
	"os"

	"racerank/pkg/parser"
	"racerank/pkg/race"
)

// RaceSource defines where the raw athlete records are loaded from
type RaceSource interface {
	// Load returns the complete race data
	Load(ctx context.Context) ([]race.Record, error)
}

// FileSource loads race data from a JSON document on disk
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource reading path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]race.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read race data: %w", err)
	}

	records, err := parser.ParseRaceData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return records, nil
}
