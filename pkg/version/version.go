// Package version exposes build-time version information for the suratku binary.
package version

// version is overridden at build time via
// -ldflags "-X github.com/suratku/suratku/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Set by the linker.
var version = "dev"

// GetVersion returns the version string embedded at build time.
func GetVersion() string {
	if version == "" {
		return "dev"
	}
	return version
}
