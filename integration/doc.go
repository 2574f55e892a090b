// Package integration runs the registry end to end in process: schemas are
// stored in a SQLite database, announced through the broker and served over
// HTTP.
//
// `go test` flags supported:
//
//	-debug
//
//	 Print the SQL queries.
//
// Example: go test -v ./integration/... -debug
package integration
