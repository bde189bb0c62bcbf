package version

// Set at build time, for example:
// go build -ldflags "-X github.com/openpaws/openpaws/internal/version.Version=v0.2.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String formats the build information for the version command.
func String() string {
	return Version + " (commit " + Commit + ", built " + BuildTime + ")"
}
