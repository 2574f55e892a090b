// Package testutil loads schema fixtures shared by tests of several packages.
package testutil

import (
	"path"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

// Root is the repository root.
func Root() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("error loading caller")
	}
	return path.Join(path.Dir(filename), "../..")
}

// Fixture reads a file relative to the repository root.
func Fixture(t *testing.T, relPath string) []byte {
	t.Helper()

	p := path.Join(Root(), relPath)
	bytes, err := afero.ReadFile(afero.NewOsFs(), p)
	if err != nil {
		t.Fatalf("error loading fixture %s: %v", p, err)
	}

	return bytes
}

// FixtureFs returns a read-only view of the repository, for loaders that
// take a file system.
func FixtureFs() afero.Fs {
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), Root()))
}
