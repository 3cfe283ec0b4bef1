package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"fxscan/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuoteSource struct{ mock.Mock }

func (m *MockQuoteSource) FetchQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	args := m.Called(ctx, pair)
	q, _ := args.Get(0).(domain.Quote)
	return q, args.Error(1)
}

var eurUsd = domain.Pair{Base: "EUR", Quote: "USD"}

func TestCachedQuoteSource_CachesSuccesses(t *testing.T) {
	src := new(MockQuoteSource)
	quote := domain.Quote{Pair: eurUsd, Rate: 1.085}
	src.On("FetchQuote", mock.Anything, eurUsd).Return(quote, nil).Once()

	c, err := NewCachedQuoteSource(src, 16, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.FetchQuote(context.Background(), eurUsd)
	require.NoError(t, err)
	require.Equal(t, quote, got)

	// ristretto applies sets asynchronously
	c.cache.Wait()

	got, err = c.FetchQuote(context.Background(), eurUsd)
	require.NoError(t, err)
	require.Equal(t, quote, got)
	src.AssertNumberOfCalls(t, "FetchQuote", 1)
}

func TestCachedQuoteSource_DoesNotCacheFailures(t *testing.T) {
	src := new(MockQuoteSource)
	src.On("FetchQuote", mock.Anything, eurUsd).Return(domain.Quote{}, errors.New("boom")).Twice()

	c, err := NewCachedQuoteSource(src, 16, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.FetchQuote(context.Background(), eurUsd)
	require.Error(t, err)
	c.cache.Wait()

	_, err = c.FetchQuote(context.Background(), eurUsd)
	require.Error(t, err)
	src.AssertExpectations(t)
}

func TestCachedQuoteSource_DistinctPairsMiss(t *testing.T) {
	src := new(MockQuoteSource)
	usdJpy := domain.Pair{Base: "USD", Quote: "JPY"}
	src.On("FetchQuote", mock.Anything, eurUsd).Return(domain.Quote{Pair: eurUsd, Rate: 1.085}, nil).Once()
	src.On("FetchQuote", mock.Anything, usdJpy).Return(domain.Quote{Pair: usdJpy, Rate: 149.2}, nil).Once()

	c, err := NewCachedQuoteSource(src, 16, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.FetchQuote(context.Background(), eurUsd)
	require.NoError(t, err)
	got, err := c.FetchQuote(context.Background(), usdJpy)
	require.NoError(t, err)
	require.Equal(t, usdJpy, got.Pair)
	src.AssertExpectations(t)
}
