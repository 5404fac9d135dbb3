// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the game engine, so the rules in internal/domain and internal/service
// stay independent of PostgreSQL or the in-memory driver.
package store
