package ranking

import (
	"sort"

	"racerank/pkg/race"
)

// DefaultPrizeCutoff is the last placement that can receive a prize
const DefaultPrizeCutoff = 49

// Rank orders entries by elapsed time then bib number and assigns placements
// and prizes. A prize is set only when the placement is within cutoff and the
// table has an entry for it; every other result has a nil prize. The input
// slice is not modified.
func Rank(entries []race.Entry, table race.PrizeTable, cutoff int) []race.Result {
	sorted := make([]race.Entry, len(entries))
	copy(sorted, entries)

	// Elapsed strings are fixed-width HH:MM:SS, so lexical order is time order.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Elapsed != b.Elapsed {
			return a.Elapsed < b.Elapsed
		}
		return a.Bib < b.Bib
	})

	results := make([]race.Result, len(sorted))
	for i, e := range sorted {
		placement := i + 1
		results[i] = race.Result{
			Bib:       e.Bib,
			Name:      e.Name,
			Elapsed:   e.Elapsed,
			Placement: placement,
			Prize:     prizeFor(placement, table, cutoff),
		}
	}

	return results
}

func prizeFor(placement int, table race.PrizeTable, cutoff int) *string {
	if placement > cutoff {
		return nil
	}
	label, ok := table[placement]
	if !ok {
		return nil
	}
	return &label
}
