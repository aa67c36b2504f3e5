package version

// Version is overridden at build time with
// -ldflags "-X github.com/vnda/vnda-cli/internal/version.Version=...".
var Version = "dev"
