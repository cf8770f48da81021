// Package history records finished builds in SQLite.
//
// Each build gets one row keyed by its run ID plus one row per asset it
// scheduled. The CLI reads the table back for "history list" and "history
// show". Schema changes bump the version in schema.go; users clear the
// database to adopt the new schema.
package history
