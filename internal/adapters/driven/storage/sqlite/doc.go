// Package sqlite is the durable store for skycatch: the observation
// archive, search queries, found rows and source statistics live in a
// single SQLite database. The database is also the query cache — cache
// lookups are plain reads against the queries table.
package sqlite
