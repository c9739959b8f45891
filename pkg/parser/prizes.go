package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"racerank/pkg/race"
)

// DefaultOrdinalPrefix is stripped from the front of prize labels
const DefaultOrdinalPrefix = "место "

// ErrMalformedPrizeLine is returned for a listing line that is not "<placement> <label>"
var ErrMalformedPrizeLine = errors.New("malformed prize line")

// ParsePrizeTable reads a prize listing with one "<placement> <label>" entry per line.
// Any line without that shape fails the whole listing.
func ParsePrizeTable(r io.Reader, ordinalPrefix string) (race.PrizeTable, error) {
	table := make(race.PrizeTable)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		place, label, err := parsePrizeLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ordinalPrefix != "" {
			label = strings.TrimPrefix(label, ordinalPrefix)
		}
		table[place] = label
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prize listing: %w", err)
	}

	return table, nil
}

func parsePrizeLine(line string) (int, string, error) {
	line = strings.TrimSpace(line)

	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx == -1 {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedPrizeLine, line)
	}

	place, err := strconv.Atoi(line[:idx])
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad placement in %q", ErrMalformedPrizeLine, line)
	}

	return place, strings.TrimSpace(line[idx:]), nil
}
