package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store. The
// wait between polls doubles with every consecutive failure, up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client api.Service, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, client, log)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff returns base * 2^failures, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return min(d, maxBackoff)
}

func refresh(ctx context.Context, store *state.Store, client api.Service, log zerolog.Logger) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	health, err := client.Health(reqCtx)
	if err != nil {
		store.UpdateHealth(nil, nil, err)
		log.Warn().Err(err).Msg("health poll failed")
		return err
	}
	logTypes, err := client.FetchLogTypes(reqCtx)
	if err != nil {
		store.UpdateHealth(nil, nil, err)
		log.Warn().Err(err).Msg("log type poll failed")
		return err
	}
	store.UpdateHealth(&health, logTypes, nil)
	return nil
}
