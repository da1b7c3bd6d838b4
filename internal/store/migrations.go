package store

type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Append only.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create interview sessions",
		SQL: `
			CREATE TABLE interview_sessions (
				key         TEXT PRIMARY KEY,
				step        TEXT NOT NULL,
				data        TEXT NOT NULL,
				expires_at  INTEGER NOT NULL,
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_interview_sessions_expiry ON interview_sessions (expires_at);
		`,
	},
}
