package ledger

// Schema DDL for the run ledger. Timestamps are RFC 3339 text, like the
// JSON files the passes exchange.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    pass TEXT NOT NULL,
    input TEXT NOT NULL,
    target TEXT NOT NULL,
    records INTEGER NOT NULL DEFAULT 0,
    state TEXT NOT NULL,
    error TEXT,
    started_at TEXT NOT NULL,
    finished_at TEXT
);`

	createRunsStartedIndex = `CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`
)

// schemaStatements run in order on Open.
var schemaStatements = []string{
	createRuns,
	createRunsStartedIndex,
}
