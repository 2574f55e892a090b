package version

import "fmt"

// VERSION is set at build time with -ldflags "-X ...version.VERSION=...".
var VERSION = "dev"

// AppVersion identifies this program in generated files and published
// records, e.g. "openenum/v1.2.0".
func AppVersion() string {
	return fmt.Sprintf("openenum/%s", VERSION)
}
