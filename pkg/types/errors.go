package types

import "errors"

// Pass errors.
var (
	ErrNotArray       = errors.New("input is not a JSON array")
	ErrEmptyBatch     = errors.New("batch is empty")
	ErrNotConfirmed   = errors.New("run not confirmed")
	ErrRolledBack     = errors.New("insert failed; batch rolled back")
	ErrRollbackFailed = errors.New("insert failed; rollback incomplete")
)
