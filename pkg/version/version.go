// Package version reports the device-jobs build, injected with
// -ldflags "-X github.com/carverauto/devicejobs/pkg/version.version=...".
package version

// These variables are set via ldflags during build
//
//nolint:gochecknoglobals // These are intentionally global for ldflags injection
var (
	version = "dev"
	buildID = "dev"
)

// Info is the build identity served by the health endpoint.
type Info struct {
	Version string `json:"version"`
	BuildID string `json:"build_id"`
}

// Get returns the build identity.
func Get() Info {
	return Info{Version: version, BuildID: buildID}
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// GetFullVersion returns version with build ID
func GetFullVersion() string {
	return version + " (build: " + buildID + ")"
}
