package sink

import (
	"context"
	"errors"

	"racerank/pkg/race"
)

// Sink defines the interface for emitting one category's ranked results
type Sink interface {
	// Write replaces any previous output for the category with results
	Write(ctx context.Context, category race.Category, results []race.Result) error

	// Close releases resources held by the sink
	Close() error
}

// Multi fans results out to several sinks in order and stops at the first
// failure. Sinks before the failing one keep what they wrote, so the file
// sink belongs last: a category whose remote writes fail leaves its previous
// output file untouched.
type Multi []Sink

func (m Multi) Write(ctx context.Context, category race.Category, results []race.Result) error {
	for _, s := range m {
		if err := s.Write(ctx, category, results); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	errs := []error{}
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
