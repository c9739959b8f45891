package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"racerank/pkg/race"
	"racerank/pkg/racetime"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	givenNames  = []string{"Иван", "Пётр", "Анна", "Мария", "Олег", "Дарья", "Глеб", "Софья", "Илья", "Ксения"}
	familyNames = []string{"Иванов", "Петров", "Смирнов", "Соколов", "Орлов", "Зайцев", "Лебедев", "Козлов"}
	prizeLabels = []string{"место Золотая медаль", "место Серебряная медаль", "место Бронзовая медаль"}
)

func main() {
	count := flag.Int("n", 300, "Number of athletes to generate")
	dir := flag.String("dir", ".", "Directory for race_data.json and prize listings")
	categories := flag.String("categories", "M15,M16,M18,W15,W16,W18,OPEN", "Comma separated categories to draw from")
	prizeCount := flag.Int("prizes", 55, "Prize listing entries per category")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	uri := flag.String("uri", "", "MongoDB URI; when set, athletes are also inserted there")
	dbName := flag.String("db", "race", "Database name")
	collName := flag.String("coll", "athletes", "Collection name")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	cats := strings.Split(*categories, ",")

	records := generateRecords(rng, *count, cats)

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		log.Fatalf("failed to encode race data: %v", err)
	}
	if err := os.WriteFile(filepath.Join(*dir, "race_data.json"), data, 0644); err != nil {
		log.Fatalf("failed to write race data: %v", err)
	}

	for _, c := range cats {
		path := filepath.Join(*dir, fmt.Sprintf("prizes_list_%s.txt", c))
		if err := os.WriteFile(path, []byte(prizeListing(*prizeCount)), 0644); err != nil {
			log.Fatalf("failed to write prize listing: %v", err)
		}
	}

	fmt.Printf("Generated %d athletes across %d categories in %s\n", len(records), len(cats), *dir)

	if *uri == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*uri))
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer client.Disconnect(context.Background())

	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}

	coll := client.Database(*dbName).Collection(*collName)
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		log.Fatalf("failed to insert athletes: %v", err)
	}
	fmt.Printf("Inserted %d athletes into %s.%s\n", len(docs), *dbName, *collName)
}

func generateRecords(rng *rand.Rand, n int, categories []string) []race.Record {
	records := make([]race.Record, n)
	for i := range records {
		// Starts between 09:00 and 23:59, races of 20 to 90 minutes; late starts cross midnight.
		start := 9*3600 + rng.Intn(15*3600)
		finish := (start + 20*60 + rng.Intn(70*60)) % (24 * 3600)

		records[i] = race.Record{
			Bib:        i + 1,
			GivenName:  givenNames[rng.Intn(len(givenNames))],
			FamilyName: familyNames[rng.Intn(len(familyNames))],
			Category:   race.Category(categories[rng.Intn(len(categories))]),
			Start:      racetime.Format(start),
			Finish:     racetime.Format(finish),
		}
	}
	return records
}

func prizeListing(n int) string {
	var b strings.Builder
	for place := 1; place <= n; place++ {
		label := "Грамота участника"
		if place <= len(prizeLabels) {
			label = prizeLabels[place-1]
		}
		fmt.Fprintf(&b, "%d %s\n", place, label)
	}
	return b.String()
}
