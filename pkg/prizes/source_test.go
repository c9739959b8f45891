package prizes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"racerank/pkg/race"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prizes_list_M15.txt"), []byte("1 место Кубок\n"), 0644))

	s := NewFileSource(dir, "prizes_list_%s.txt")
	assert.Equal(t, filepath.Join(dir, "prizes_list_W16.txt"), s.Path("W16"))

	data, err := s.Fetch(context.Background(), "M15")
	require.NoError(t, err)
	assert.Equal(t, "1 место Кубок\n", string(data))

	_, err = s.Fetch(context.Background(), "W16")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSource(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("prizes_list_W18", "1 место Кубок\n2 Медаль\n"))

	s := NewRedisSource(client, "prizes_list_")
	data, err := s.Fetch(context.Background(), "W18")
	require.NoError(t, err)
	assert.Equal(t, "1 место Кубок\n2 Медаль\n", string(data))

	_, err = s.Fetch(context.Background(), "M18")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSourceBackendEquivalence(t *testing.T) {
	properties := gopter.NewProperties(nil)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dir := t.TempDir()

	properties.Property("file and redis sources return the same listing", prop.ForAll(
		func(category string, listing []byte) bool {
			cat := race.Category(category)
			fileSource := NewFileSource(dir, "prizes_list_%s.txt")
			redisSource := NewRedisSource(client, "prizes_list_")

			if err := os.WriteFile(fileSource.Path(cat), listing, 0644); err != nil {
				return false
			}
			if err := client.Set(context.Background(), redisSource.Key(cat), listing, 0).Err(); err != nil {
				return false
			}

			fromFile, err := fileSource.Fetch(context.Background(), cat)
			if err != nil {
				return false
			}
			fromRedis, err := redisSource.Fetch(context.Background(), cat)
			if err != nil {
				return false
			}
			return string(fromFile) == string(fromRedis)
		},
		gen.Identifier(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
