package types

import "time"

// Pass names recorded in the ledger.
const (
	PassExtract = "extract"
	PassEnrich  = "enrich"
	PassLoad    = "load"
)

// Run states. A run starts as running and ends in exactly one of the
// other three.
const (
	RunStateRunning    = "running"
	RunStateSucceeded  = "succeeded"
	RunStateFailed     = "failed"
	RunStateRolledBack = "rolled_back"
)

// Run is one ledger entry describing a single pass invocation.
type Run struct {
	RunID      string     `json:"run_id"`                // UUID v7, generated on Begin.
	Pass       string     `json:"pass"`                  // One of the Pass constants.
	Input      string     `json:"input"`                 // Input file path.
	Target     string     `json:"target"`                // Output file path or db.collection.
	Records    int        `json:"records"`               // Records written or inserted; 0 on failure.
	State      string     `json:"state"`                 // One of the RunState constants.
	Error      string     `json:"error,omitempty"`       // Error text for failed runs.
	StartedAt  time.Time  `json:"started_at"`            // When Begin was called.
	FinishedAt *time.Time `json:"finished_at,omitempty"` // Nil while running.
}
