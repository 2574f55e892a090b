// Package largeenum holds a generated open enum used by tests.
package largeenum

//go:generate go run ../../.. generate -f large_open_enum.json -o .
