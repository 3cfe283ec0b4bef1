package rate

import (
	"errors"
	"sync"

	"fxscan/internal/adapters"
	"fxscan/internal/domain"
)

// LatestSnapshot keeps the most recent snapshot for readers outside the poll
// loop (the HTTP observer). It doubles as a Presenter so the poller can feed
// it like any other output.
type LatestSnapshot struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

func NewLatestSnapshot() *LatestSnapshot {
	return &LatestSnapshot{}
}

func (l *LatestSnapshot) Render(snapshot domain.Snapshot) error {
	l.mu.Lock()
	l.snap = &snapshot
	l.mu.Unlock()
	return nil
}

func (l *LatestSnapshot) Get() (domain.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.snap == nil {
		return domain.Snapshot{}, false
	}
	return *l.snap, true
}

// MultiPresenter fans one snapshot out to several presenters. Every presenter
// sees the snapshot even when an earlier one errors.
type MultiPresenter struct {
	presenters []adapters.Presenter
}

func NewMultiPresenter(presenters ...adapters.Presenter) *MultiPresenter {
	return &MultiPresenter{presenters: presenters}
}

func (m *MultiPresenter) Render(snapshot domain.Snapshot) error {
	var errs []error
	for _, p := range m.presenters {
		if err := p.Render(snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
