package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/session"
	"github.com/soyeahso/adaudit/internal/store"
)

// sessionBackend is the configured session store plus its housekeeping.
type sessionBackend struct {
	store session.Store
	kind  string
	sweep func(ctx context.Context) (int64, error)
	close func() error

	// sqlite is set only for the sqlite backend.
	sqlite *store.SessionStore
}

// openSessions opens the store selected by cfg.Session.Store.
func openSessions(cfg config.Config, p config.Paths, log *logging.Logger) (*sessionBackend, error) {
	switch cfg.Session.Store {
	case "sqlite":
		dbPath := p.SessionDB(cfg.Session)
		db, err := store.Open(dbPath, log)
		if err != nil {
			return nil, fmt.Errorf("opening session database: %w", err)
		}
		ss := store.NewSessionStore(db, cfg.Session.KeyPrefix)
		log.Info().Str("path", dbPath).Msg("using SQLite session store")
		return &sessionBackend{
			store:  ss,
			kind:   "sqlite",
			sweep:  ss.Sweep,
			close:  db.Close,
			sqlite: ss,
		}, nil
	case "", "memory":
		ms := session.NewMemoryStore(cfg.Session.MaxEntries)
		log.Info().Int("maxEntries", cfg.Session.MaxEntries).Msg("using in-memory session store")
		return &sessionBackend{
			store: ms,
			kind:  "memory",
			sweep: func(context.Context) (int64, error) { return int64(ms.Sweep()), nil },
			close: func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

// runSweeper removes expired sessions every interval until ctx is done.
func runSweeper(ctx context.Context, interval time.Duration, sweep func(context.Context) (int64, error), log *logging.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweep(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("session sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("expired sessions removed")
			}
		}
	}
}
