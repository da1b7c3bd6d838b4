package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/session"
)

// SessionStore implements session.Store on the interview_sessions table.
// Each session is one JSON row; expired rows read as absent.
type SessionStore struct {
	db     *DB
	prefix string
	now    func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a store; prefix namespaces keys (e.g. "sessao:").
func NewSessionStore(db *DB, prefix string) *SessionStore {
	return &SessionStore{db: db, prefix: prefix, now: time.Now}
}

func (s *SessionStore) Get(ctx context.Context, key string) (*domain.Session, error) {
	if key == "" {
		return nil, session.ErrInvalidKey
	}

	var data string
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT data FROM interview_sessions WHERE key = ? AND expires_at > ?`,
		s.prefix+key, s.now().Unix(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", key, err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", key, err)
	}
	return &sess, nil
}

func (s *SessionStore) Set(ctx context.Context, key string, sess *domain.Session, ttl time.Duration) error {
	if key == "" {
		return session.ErrInvalidKey
	}
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", key, err)
	}

	now := s.now()
	_, err = s.db.sql.ExecContext(ctx,
		`INSERT INTO interview_sessions (key, step, data, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   step = excluded.step,
		   data = excluded.data,
		   expires_at = excluded.expires_at,
		   updated_at = excluded.updated_at`,
		s.prefix+key, string(sess.Step), string(data), now.Add(ttl).Unix(), now.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return session.ErrInvalidKey
	}
	if _, err := s.db.sql.ExecContext(ctx, `DELETE FROM interview_sessions WHERE key = ?`, s.prefix+key); err != nil {
		return fmt.Errorf("deleting session %s: %w", key, err)
	}
	return nil
}

// Sweep deletes expired rows and returns how many went.
func (s *SessionStore) Sweep(ctx context.Context) (int64, error) {
	res, err := s.db.sql.ExecContext(ctx, `DELETE FROM interview_sessions WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.db.log.Debug().Int64("removed", n).Msg("expired sessions swept")
	}
	return n, nil
}

// Active counts unexpired sessions per step, for `adaudit status`.
func (s *SessionStore) Active(ctx context.Context) (map[domain.Step]int, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT step, COUNT(*) FROM interview_sessions WHERE expires_at > ? GROUP BY step`,
		s.now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Step]int)
	for rows.Next() {
		var step string
		var n int
		if err := rows.Scan(&step, &n); err != nil {
			return nil, err
		}
		counts[domain.Step(step)] = n
	}
	return counts, rows.Err()
}
