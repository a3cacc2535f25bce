package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/jhlabs/unfold/docsite/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the one-line version printed by --version.
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
