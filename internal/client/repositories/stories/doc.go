// Package stories implements the durable local story store. Stories are kept
// in a SQLite table keyed by id with a secondary index on sync status, so
// status scans never require a full table read.
package stories
