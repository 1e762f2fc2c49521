package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1ChartSessions,
}

// migrationV1ChartSessions creates the session table.
//
// payload holds the JSON-encoded cycles; afeta and cycle_length are copied out
// so a row can be inspected without decoding it. Timestamps are RFC3339 UTC
// text so expiry compares lexically.
const migrationV1ChartSessions = `
CREATE TABLE IF NOT EXISTS chart_sessions (
    id TEXT PRIMARY KEY,
    afeta TEXT NOT NULL CHECK (afeta IN (
        'Saturn', 'Jupiter', 'Mars', 'Venus', 'Mercury', 'Sun', 'Moon'
    )),
    cycle_length REAL NOT NULL,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL,
    expires_at TEXT NOT NULL
);

-- Expiry sweeps
CREATE INDEX IF NOT EXISTS idx_chart_sessions_expires
    ON chart_sessions(expires_at);
`
