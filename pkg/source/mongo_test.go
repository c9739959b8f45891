package source

import (
	"testing"

	"racerank/pkg/race"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeRecordProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decodeRecord extracts athlete fields from BSON", prop.ForAll(
		func(bib int, given, family string, category string) bool {
			raw, err := bson.Marshal(bson.M{
				"Нагрудный номер": bib,
				"Имя":             given,
				"Фамилия":         family,
				"Категория":       category,
				"Время старта":    "10:00:00",
				"Время финиша":    "10:20:00",
			})
			if err != nil {
				return false
			}

			record, err := decodeRecord(bson.Raw(raw))
			if err != nil {
				return false
			}

			return record == race.Record{
				Bib:        bib,
				GivenName:  given,
				FamilyName: family,
				Category:   race.Category(category),
				Start:      "10:00:00",
				Finish:     "10:20:00",
			}
		},
		gen.IntRange(1, 9999),
		gen.Identifier(),
		gen.Identifier(),
		gen.OneConstOf("M15", "M16", "M18", "W15", "W16", "W18", "OPEN"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeRecordError(t *testing.T) {
	if _, err := decodeRecord(bson.Raw{0x00, 0x01}); err == nil {
		t.Error("expected error for invalid BSON")
	}
}
