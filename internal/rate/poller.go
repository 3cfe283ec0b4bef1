package rate

import (
	"context"
	"errors"
	"time"

	"fxscan/internal/adapters"
	"fxscan/internal/domain"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultInterval       = 60 * time.Second
	defaultFailThreshold  = 3
	defaultRequestTimeout = 10 * time.Second
)

// Poller drives the fetch-render loop: every interval it fetches a quote for
// each configured pair sequentially, renders the resulting snapshot, and
// stops once every pair has failed for failThreshold consecutive cycles.
type Poller struct {
	pairs          []domain.Pair
	source         adapters.QuoteSource
	presenter      adapters.Presenter
	interval       time.Duration
	failThreshold  int
	requestTimeout time.Duration

	// Mutated only inside scheduled ticks, which singleton mode keeps serial.
	failures int
	cooldown int
	stopped  bool
}

func NewPoller(pairs []domain.Pair, source adapters.QuoteSource, presenter adapters.Presenter, interval time.Duration, failThreshold int, requestTimeout time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if failThreshold <= 0 {
		failThreshold = defaultFailThreshold
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &Poller{
		pairs:          pairs,
		source:         source,
		presenter:      presenter,
		interval:       interval,
		failThreshold:  failThreshold,
		requestTimeout: requestTimeout,
	}
}

// Run blocks until ctx is canceled (returns nil) or until every pair has
// failed for failThreshold consecutive cycles (returns domain.ErrNoQuotes).
func (p *Poller) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	fatal := make(chan error, 1)
	job := func(jobCtx context.Context) {
		if done, tickErr := p.tick(jobCtx); done {
			select {
			case fatal <- tickErr:
			default:
			}
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	logrus.Infof("Poller started: %d pairs, refresh every %s", len(p.pairs), p.interval)

	var runErr error
	select {
	case <-ctx.Done():
		logrus.Info("Poller stopping on cancellation")
	case runErr = <-fatal:
	}

	if sdErr := scheduler.Shutdown(); sdErr != nil {
		logrus.Errorf("Scheduler shutdown error: %v", sdErr)
	}
	return runErr
}

// RunOnce performs a single fetch-render cycle and reports failure only when
// no pair could be fetched at all.
func (p *Poller) RunOnce(ctx context.Context) error {
	snapshot, _ := p.runCycle(ctx, uuid.NewString())
	if err := p.presenter.Render(snapshot); err != nil {
		logrus.WithError(err).Error("Failed to render snapshot")
	}
	if snapshot.AllFailed() {
		return domain.ErrNoQuotes
	}
	return nil
}

// tick handles one scheduled slot. done reports that the loop must stop.
func (p *Poller) tick(ctx context.Context) (done bool, err error) {
	if p.stopped {
		return false, nil
	}
	if p.cooldown > 0 {
		p.cooldown--
		logrus.Info("Skipping cycle to back off after rate limiting")
		return false, nil
	}

	execID := uuid.NewString()
	snapshot, rateLimited := p.runCycle(ctx, execID)

	// A cancellation mid-cycle leaves spurious failure entries behind; the
	// scheduler is shutting down, so neither render nor count them.
	if ctx.Err() != nil {
		return false, nil
	}

	if renderErr := p.presenter.Render(snapshot); renderErr != nil {
		logrus.WithError(renderErr).Errorf("Failed to render snapshot; execID: %s", execID)
	}

	if snapshot.AllFailed() {
		p.failures++
		logrus.Warnf("All %d pairs failed this cycle (%d consecutive); execID: %s", len(p.pairs), p.failures, execID)
		if p.failures >= p.failThreshold {
			p.stopped = true
			return true, domain.ErrNoQuotes
		}
	} else {
		p.failures = 0
	}

	if rateLimited {
		p.cooldown = 1
	}
	return false, nil
}

// runCycle fetches every configured pair in order. One pair's failure never
// aborts the cycle: it is recorded as a failed quote and the loop moves on.
func (p *Poller) runCycle(ctx context.Context, execID string) (domain.Snapshot, bool) {
	quotes := make([]domain.Quote, 0, len(p.pairs))
	rateLimited := false

	for _, pair := range p.pairs {
		reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
		quote, err := p.source.FetchQuote(reqCtx, pair)
		cancel()

		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				rateLimited = true
			}
			logrus.Warnf("Pair '%s' wasn't fetched this cycle: %s; execID: %s", pair, err, execID)
			quote = domain.FailedQuote(pair, err)
		}
		quotes = append(quotes, quote)
	}

	return domain.Snapshot{At: time.Now(), Quotes: quotes}, rateLimited
}
