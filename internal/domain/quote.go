package domain

import "time"

// Quote is one fetched (or failed) exchange-rate observation for a pair.
// LastRefreshed holds the timestamp exactly as reported by the upstream, or
// the local fetch time when the upstream omits it. A non-empty Err marks the
// quote as failed; all other value fields are then zero.
type Quote struct {
	Pair          Pair
	Rate          float64
	Bid           *float64
	Ask           *float64
	LastRefreshed string
	FetchedAt     time.Time
	Err           string
}

func (q Quote) OK() bool {
	return q.Err == ""
}

// FailedQuote records a fetch failure as a quote entry so a snapshot always
// carries one entry per configured pair.
func FailedQuote(pair Pair, err error) Quote {
	return Quote{Pair: pair, FetchedAt: time.Now(), Err: err.Error()}
}

// Snapshot is the ordered set of quotes produced in one poll cycle, one per
// configured pair. Snapshots are not merged across cycles.
type Snapshot struct {
	At     time.Time
	Quotes []Quote
}

func (s Snapshot) Succeeded() int {
	n := 0
	for _, q := range s.Quotes {
		if q.OK() {
			n++
		}
	}
	return n
}

func (s Snapshot) AllFailed() bool {
	return s.Succeeded() == 0
}
