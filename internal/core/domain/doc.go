// Package domain contains the core entities for survey searches:
// targets, queries, found observations, and source statistics.
// It has no dependencies on storage or transport; adapters translate
// these types to and from their own representations.
package domain
