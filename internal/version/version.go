package version

// Build information set by ldflags
var (
	Version = "dev" // Set by goreleaser: -X github.com/arthur-debert/ocp/internal/version.Version={{.Version}}
	Commit  = ""    // Set by goreleaser: -X github.com/arthur-debert/ocp/internal/version.Commit={{.ShortCommit}}
	Date    = ""    // Set by goreleaser: -X github.com/arthur-debert/ocp/internal/version.Date={{.Date}}
)
