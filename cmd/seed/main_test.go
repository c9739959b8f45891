package main

import (
	"math/rand"
	"strings"
	"testing"

	"racerank/pkg/parser"
	"racerank/pkg/racetime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	records := generateRecords(rng, 200, []string{"M15", "W15"})
	require.Len(t, records, 200)

	for i, r := range records {
		assert.Equal(t, i+1, r.Bib)
		assert.Contains(t, []string{"M15", "W15"}, string(r.Category))

		elapsed, err := racetime.Elapsed(r.Start, r.Finish)
		require.NoError(t, err)
		secs, err := racetime.ParseClock(elapsed)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, secs, 20*60)
		assert.Less(t, secs, 90*60)
	}
}

func TestPrizeListingParses(t *testing.T) {
	table, err := parser.ParsePrizeTable(strings.NewReader(prizeListing(55)), parser.DefaultOrdinalPrefix)
	require.NoError(t, err)
	assert.Len(t, table, 55)
	assert.Equal(t, "Золотая медаль", table[1])
	assert.Equal(t, "Грамота участника", table[55])
}
