package prizes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"racerank/pkg/race"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a source has no listing for a category
var ErrNotFound = errors.New("prize listing not found")

// Source defines where raw prize listings come from
type Source interface {
	// Fetch returns the raw listing text for the category
	Fetch(ctx context.Context, category race.Category) ([]byte, error)
}

// FileSource reads listings from files named after the category
type FileSource struct {
	dir     string
	pattern string
}

// NewFileSource creates a FileSource. The pattern takes the category via %s,
// e.g. "prizes_list_%s.txt".
func NewFileSource(dir, pattern string) *FileSource {
	return &FileSource{dir: dir, pattern: pattern}
}

// Path returns the listing file path for the category
func (s *FileSource) Path(category race.Category) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, category))
}

func (s *FileSource) Fetch(ctx context.Context, category race.Category) ([]byte, error) {
	data, err := os.ReadFile(s.Path(category))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path(category))
		}
		return nil, err
	}
	return data, nil
}

// RedisSource reads listings stored as one string value per category
type RedisSource struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisSource(client *redis.Client, keyPrefix string) *RedisSource {
	return &RedisSource{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Key returns the Redis key holding the category's listing
func (s *RedisSource) Key(category race.Category) string {
	return s.keyPrefix + string(category)
}

func (s *RedisSource) Fetch(ctx context.Context, category race.Category) ([]byte, error) {
	data, err := s.client.Get(ctx, s.Key(category)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: key %s", ErrNotFound, s.Key(category))
		}
		return nil, err
	}
	return data, nil
}
