package domain

import (
	"fmt"
	"strings"
)

// Pair is a base/quote currency pair, e.g. EUR/USD. Immutable once parsed.
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// ParsePair normalizes a "BASE/QUOTE" string into a Pair: both sides are
// trimmed and uppercased, both must be non-empty.
func ParsePair(s string) (Pair, error) {
	base, quote, found := strings.Cut(s, "/")
	if !found {
		return Pair{}, fmt.Errorf("invalid pair %q: expected format like EUR/USD", s)
	}
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return Pair{}, fmt.Errorf("invalid pair %q: expected format like EUR/USD", s)
	}
	return Pair{Base: base, Quote: quote}, nil
}

// ParsePairs parses a comma-separated pair list, skipping empty entries.
func ParsePairs(s string) ([]Pair, error) {
	pairs := make([]Pair, 0)
	for _, entry := range strings.Split(s, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		pair, err := ParsePair(entry)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}
