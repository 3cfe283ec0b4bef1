package domain

import "errors"

var (
	ErrRateLimited       = errors.New("rate limited by upstream api")
	ErrUnauthorized      = errors.New("upstream api rejected the api key")
	ErrUpstream          = errors.New("upstream api error")
	ErrMalformedResponse = errors.New("malformed upstream response")

	ErrNoPairs  = errors.New("at least one currency pair must be provided")
	ErrNoQuotes = errors.New("no quotes could be retrieved")
)
