package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFailedQuote_RecordsReasonAndFetchTime(t *testing.T) {
	pair := Pair{Base: "EUR", Quote: "USD"}
	q := FailedQuote(pair, errors.New("connection refused"))

	require.False(t, q.OK())
	require.Equal(t, pair, q.Pair)
	require.Equal(t, "connection refused", q.Err)
	require.WithinDuration(t, time.Now(), q.FetchedAt, time.Second)
}

func TestSnapshot_AllFailedAndSucceeded(t *testing.T) {
	ok := Quote{Pair: Pair{Base: "EUR", Quote: "USD"}, Rate: 1.085}
	bad := FailedQuote(Pair{Base: "USD", Quote: "JPY"}, errors.New("boom"))

	require.True(t, Snapshot{Quotes: []Quote{bad, bad}}.AllFailed())
	require.False(t, Snapshot{Quotes: []Quote{bad, ok}}.AllFailed())
	require.Equal(t, 1, Snapshot{Quotes: []Quote{bad, ok}}.Succeeded())
	require.Equal(t, 0, Snapshot{}.Succeeded())
}
