package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const statusKey = "newsmania:ingest:last_cycle"

// ErrNoStatus means no cycle summary has been recorded yet, or the
// status store is disabled.
var ErrNoStatus = errors.New("ingest: no cycle status recorded")

// StatusRecorder keeps the most recent cycle summary in Redis so the
// API can serve it without touching the article store. A nil recorder,
// or one built with a nil client, disables recording.
type StatusRecorder struct {
	client *redis.Client
}

func NewStatusRecorder(client *redis.Client) *StatusRecorder {
	return &StatusRecorder{client: client}
}

// Record stores the summary. Failures are logged, never propagated;
// status is best-effort and must not affect the cycle outcome.
func (r *StatusRecorder) Record(ctx context.Context, s Summary) {
	if r == nil || r.client == nil {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		slog.Warn("error encoding cycle status", "error", err)
		return
	}

	if err := r.client.Set(ctx, statusKey, data, 0).Err(); err != nil {
		slog.Warn("error recording cycle status", "error", err)
	}
}

func (r *StatusRecorder) Last(ctx context.Context) (Summary, error) {
	if r == nil || r.client == nil {
		return Summary{}, ErrNoStatus
	}

	data, err := r.client.Get(ctx, statusKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, ErrNoStatus
	}
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}
