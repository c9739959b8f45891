package prizes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"racerank/pkg/parser"
	"racerank/pkg/race"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct{ mock.Mock }

func (m *MockSource) Fetch(ctx context.Context, category race.Category) ([]byte, error) {
	args := m.Called(ctx, category)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func TestCacheLoadsOnce(t *testing.T) {
	ms := new(MockSource)
	ms.On("Fetch", mock.Anything, race.Category("M15")).
		Return([]byte("3 место Бронзовая медаль\n4 Грамота\n"), nil).Once()

	c := NewCache(ms, parser.DefaultOrdinalPrefix)

	for i := 0; i < 3; i++ {
		table, err := c.Get(context.Background(), "M15")
		require.NoError(t, err)
		assert.Equal(t, race.PrizeTable{3: "Бронзовая медаль", 4: "Грамота"}, table)
	}

	ms.AssertNumberOfCalls(t, "Fetch", 1)
	assert.Equal(t, 1, c.Len())
}

func TestCacheKeysByCategory(t *testing.T) {
	ms := new(MockSource)
	ms.On("Fetch", mock.Anything, race.Category("M15")).Return([]byte("1 A\n"), nil).Once()
	ms.On("Fetch", mock.Anything, race.Category("W15")).Return([]byte("1 B\n"), nil).Once()

	c := NewCache(ms, parser.DefaultOrdinalPrefix)

	m, err := c.Get(context.Background(), "M15")
	require.NoError(t, err)
	w, err := c.Get(context.Background(), "W15")
	require.NoError(t, err)

	assert.Equal(t, "A", m[1])
	assert.Equal(t, "B", w[1])
	assert.Equal(t, 2, c.Len())
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	ms := new(MockSource)
	ms.On("Fetch", mock.Anything, race.Category("M16")).Return(nil, errors.New("disk on fire")).Once()
	ms.On("Fetch", mock.Anything, race.Category("M16")).Return([]byte("1 Gold\n"), nil).Once()

	c := NewCache(ms, parser.DefaultOrdinalPrefix)

	_, err := c.Get(context.Background(), "M16")
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())

	table, err := c.Get(context.Background(), "M16")
	require.NoError(t, err)
	assert.Equal(t, "Gold", table[1])
}

func TestCacheParseError(t *testing.T) {
	ms := new(MockSource)
	ms.On("Fetch", mock.Anything, race.Category("W16")).Return([]byte("1 Gold\n\n"), nil)

	c := NewCache(ms, parser.DefaultOrdinalPrefix)
	_, err := c.Get(context.Background(), "W16")
	assert.ErrorIs(t, err, parser.ErrMalformedPrizeLine)
}

func TestCacheConcurrentGet(t *testing.T) {
	ms := new(MockSource)
	ms.On("Fetch", mock.Anything, race.Category("W18")).Return([]byte("1 Gold\n"), nil)

	c := NewCache(ms, parser.DefaultOrdinalPrefix)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := c.Get(context.Background(), "W18")
			assert.NoError(t, err)
			assert.Equal(t, "Gold", table[1])
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}
