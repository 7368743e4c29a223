// Package types defines the records, configuration and standard errors
// shared by the evermind-migrate passes: the raw question/answer pair read
// from disk, the enriched study document written to MongoDB, and the run
// entries kept in the local ledger.
package types
