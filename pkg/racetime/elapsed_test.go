package racetime

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsed(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		finish string
		want   string
	}{
		{name: "same day", start: "08:00:00", finish: "09:15:30", want: "01:15:30"},
		{name: "midnight rollover", start: "23:50:00", finish: "00:10:00", want: "00:20:00"},
		{name: "zero elapsed", start: "10:11:12", finish: "10:11:12", want: "00:00:00"},
		{name: "almost a day", start: "00:00:01", finish: "00:00:00", want: "23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Elapsed(tt.start, tt.finish)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestElapsedMalformed(t *testing.T) {
	for _, in := range []string{"", "08:00", "08:xx:00", "1:2:3:4"} {
		_, err := Elapsed(in, "09:00:00")
		assert.ErrorIs(t, err, ErrMalformedClock, "start %q", in)

		_, err = Elapsed("09:00:00", in)
		assert.ErrorIs(t, err, ErrMalformedClock, "finish %q", in)
	}
}

func TestFormatUnboundedHours(t *testing.T) {
	assert.Equal(t, "27:46:40", Format(100000))
	assert.Equal(t, "00:00:05", Format(5))
}

func TestElapsedProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("elapsed equals finish minus start when finish is not earlier", prop.ForAll(
		func(start, delta int) bool {
			finish := start + delta
			if finish >= secondsPerDay {
				return true
			}
			got, err := Elapsed(Format(start), Format(finish))
			if err != nil {
				return false
			}
			secs, err := ParseClock(got)
			return err == nil && secs == delta
		},
		gen.IntRange(0, secondsPerDay-1),
		gen.IntRange(0, secondsPerDay-1),
	))

	properties.Property("finish before start wraps by exactly one day", prop.ForAll(
		func(start, finish int) bool {
			if finish >= start {
				return true
			}
			got, err := Elapsed(Format(start), Format(finish))
			if err != nil {
				return false
			}
			secs, _ := ParseClock(got)
			return secs == finish+secondsPerDay-start && secs > 0 && secs < secondsPerDay
		},
		gen.IntRange(0, secondsPerDay-1),
		gen.IntRange(0, secondsPerDay-1),
	))

	properties.Property("formatted output is fixed width below 100 hours", prop.ForAll(
		func(total int) bool {
			return len(Format(total)) == 8
		},
		gen.IntRange(0, 100*3600-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func BenchmarkElapsed(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Elapsed("23:50:00", "00:10:00"); err != nil {
			b.Fatal(err)
		}
	}
}
