package parser

import (
	"fmt"

	"github.com/goccy/go-json"

	"racerank/pkg/race"
)

// ParseRaceData deserializes the race data document into athlete records
func ParseRaceData(data []byte) ([]race.Record, error) {
	var records []race.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal race data: %w", err)
	}
	return records, nil
}
