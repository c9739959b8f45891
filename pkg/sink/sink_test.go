package sink

import (
	"context"
	"errors"
	"testing"

	"racerank/pkg/race"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSink struct{ mock.Mock }

func (m *MockSink) Write(ctx context.Context, category race.Category, results []race.Result) error {
	return m.Called(ctx, category, results).Error(0)
}

func (m *MockSink) Close() error { return m.Called().Error(0) }

func TestMultiWritesAll(t *testing.T) {
	a, b := new(MockSink), new(MockSink)
	a.On("Write", mock.Anything, race.Category("M15"), sampleResults).Return(nil)
	b.On("Write", mock.Anything, race.Category("M15"), sampleResults).Return(nil)

	err := Multi{a, b}.Write(context.Background(), "M15", sampleResults)
	assert.NoError(t, err)
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}

func TestMultiStopsAtFirstFailure(t *testing.T) {
	a, b := new(MockSink), new(MockSink)
	a.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := Multi{a, b}.Write(context.Background(), "M15", sampleResults)
	assert.EqualError(t, err, "disk full")
	b.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestMultiClose(t *testing.T) {
	a, b := new(MockSink), new(MockSink)
	a.On("Close").Return(errors.New("boom"))
	b.On("Close").Return(nil)

	err := Multi{a, b}.Close()
	assert.Error(t, err)
	b.AssertCalled(t, "Close")
}

func TestMultiCloseKeepsErrorChain(t *testing.T) {
	errBroker := errors.New("broker unreachable")
	errPool := errors.New("pool closed twice")

	a, b, c := new(MockSink), new(MockSink), new(MockSink)
	a.On("Close").Return(errBroker)
	b.On("Close").Return(nil)
	c.On("Close").Return(errPool)

	err := Multi{a, b, c}.Close()
	assert.ErrorIs(t, err, errBroker)
	assert.ErrorIs(t, err, errPool)
}

func TestMultiCloseNoErrors(t *testing.T) {
	a := new(MockSink)
	a.On("Close").Return(nil)
	assert.NoError(t, Multi{a}.Close())
}
