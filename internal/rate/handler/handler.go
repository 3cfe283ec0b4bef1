package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"fxscan/internal/domain"

	"github.com/sirupsen/logrus"
)

// SnapshotReader exposes the most recent snapshot, if any cycle has
// completed yet.
type SnapshotReader interface {
	Get() (domain.Snapshot, bool)
}

type Handler struct {
	latest SnapshotReader
}

func NewSnapshotHandler(latest SnapshotReader) *Handler {
	return &Handler{latest: latest}
}

type SnapshotResponse struct {
	At     time.Time       `json:"at"`
	Quotes []QuoteResponse `json:"quotes"`
}

type QuoteResponse struct {
	Pair          string   `json:"pair"`
	Rate          float64  `json:"rate,omitempty"`
	Bid           *float64 `json:"bid,omitempty"`
	Ask           *float64 `json:"ask,omitempty"`
	LastRefreshed string   `json:"last_refreshed,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest.Get()
	if !ok {
		writeError(w, http.StatusNotFound, "no snapshot available yet")
		return
	}

	res := SnapshotResponse{At: snapshot.At, Quotes: make([]QuoteResponse, 0, len(snapshot.Quotes))}
	for _, q := range snapshot.Quotes {
		res.Quotes = append(res.Quotes, QuoteResponse{
			Pair:          q.Pair.String(),
			Rate:          q.Rate,
			Bid:           q.Bid,
			Ask:           q.Ask,
			LastRefreshed: q.LastRefreshed,
			Error:         q.Err,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logrus.WithError(err).WithField("handler", "GetLatest").Error("Failed to encode snapshot response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}
