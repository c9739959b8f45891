package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"racerank/pkg/race"
)

// DefaultIndent is the per-level indentation of result files
const DefaultIndent = "    "

// FileSink writes each category to "<category>.json" in a directory
type FileSink struct {
	dir    string
	indent string
}

// NewFileSink creates a FileSink writing into dir
func NewFileSink(dir, indent string) *FileSink {
	return &FileSink{dir: dir, indent: indent}
}

// Path returns the output file for the category
func (s *FileSink) Path(category race.Category) string {
	return filepath.Join(s.dir, string(category)+".json")
}

// Write encodes results and atomically replaces the category's file
func (s *FileSink) Write(ctx context.Context, category race.Category, results []race.Result) error {
	data, err := Encode(results, s.indent)
	if err != nil {
		return fmt.Errorf("failed to encode %s results: %w", category, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+string(category)+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s results: %w", category, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.Path(category))
}

func (s *FileSink) Close() error { return nil }

// Encode renders results as an indented JSON array. Non-ASCII text is kept
// as-is and no trailing newline is written.
func Encode(results []race.Result, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(nonNil(results)); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func nonNil(results []race.Result) []race.Result {
	if results == nil {
		return []race.Result{}
	}
	return results
}
