package adapters

import (
	"context"
	"fxscan/internal/domain"
)

type QuoteSource interface {
	FetchQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error)
}

type Presenter interface {
	Render(snapshot domain.Snapshot) error
}
