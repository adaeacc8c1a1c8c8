package health

import (
	"context"
	"errors"
)

// Pinger is implemented by storages that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SQLiteChecker checks the project database.
type SQLiteChecker struct {
	pinger Pinger
}

// NewSQLiteChecker creates a new SQLite health checker.
func NewSQLiteChecker(p Pinger) *SQLiteChecker {
	return &SQLiteChecker{pinger: p}
}

// Name returns the checker name.
func (c *SQLiteChecker) Name() string {
	return "sqlite"
}

// Check verifies the SQLite database is accessible.
func (c *SQLiteChecker) Check(ctx context.Context) error {
	if c.pinger == nil {
		return errors.New("database not initialized")
	}
	return c.pinger.Ping(ctx)
}

// RosterChecker reports whether the roster has been fetched.
type RosterChecker struct {
	loaded func() bool
}

// NewRosterChecker creates a checker backed by loaded.
func NewRosterChecker(loaded func() bool) *RosterChecker {
	return &RosterChecker{loaded: loaded}
}

// Name returns the checker name.
func (c *RosterChecker) Name() string {
	return "roster"
}

// Check fails until the roster has loaded.
func (c *RosterChecker) Check(ctx context.Context) error {
	if c.loaded == nil || !c.loaded() {
		return errors.New("roster not loaded")
	}
	return nil
}
