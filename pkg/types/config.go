package types

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Config holds the owner identifiers and the MongoDB target for a run.
// Values come from config.yaml, EVERMIND_* environment variables or a .env
// file; none are compiled into the binary.
type Config struct {
	UserID     string        `mapstructure:"user_id" yaml:"user_id"`
	SectionID  string        `mapstructure:"section_id" yaml:"section_id"`
	MongoURI   string        `mapstructure:"mongodb_uri" yaml:"mongodb_uri,omitempty"`
	Database   string        `mapstructure:"database" yaml:"database"`
	Collection string        `mapstructure:"collection" yaml:"collection"`
	DataDir    string        `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Defaults for the MongoDB target.
const (
	DefaultDatabase   = "evermind"
	DefaultCollection = "questions"
	DefaultTimeout    = 30 * time.Second
)

// Config validation errors.
var (
	ErrUserIDMissing     = errors.New("user id must not be empty")
	ErrUserIDInvalid     = errors.New("user id is not a valid ObjectID")
	ErrSectionIDMissing  = errors.New("section id must not be empty")
	ErrSectionIDInvalid  = errors.New("section id is not a valid ObjectID")
	ErrMongoURIMissing   = errors.New("mongodb uri must not be empty")
	ErrDatabaseMissing   = errors.New("database must not be empty")
	ErrCollectionMissing = errors.New("collection must not be empty")
)

// ValidateIDs checks the owner identifiers only. The enrich pass needs
// nothing else.
func (c Config) ValidateIDs() error {
	if c.UserID == "" {
		return ErrUserIDMissing
	}
	if !primitive.IsValidObjectID(c.UserID) {
		return ErrUserIDInvalid
	}
	if c.SectionID == "" {
		return ErrSectionIDMissing
	}
	if !primitive.IsValidObjectID(c.SectionID) {
		return ErrSectionIDInvalid
	}
	return nil
}

// Validate checks everything the load pass needs.
func (c Config) Validate() error {
	if err := c.ValidateIDs(); err != nil {
		return err
	}
	if c.MongoURI == "" {
		return ErrMongoURIMissing
	}
	if c.Database == "" {
		return ErrDatabaseMissing
	}
	if c.Collection == "" {
		return ErrCollectionMissing
	}
	return nil
}

// OperationTimeout bounds each MongoDB round trip. A zero or negative
// Timeout means DefaultTimeout.
func (c Config) OperationTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
