// Package buildinfo holds the release identity stamped in by the linker:
//
//	-ldflags "-X github.com/fremvaerk/horalis/internal/buildinfo.Version=1.4.0"
//
// An unstamped build reports "dev", which the update check treats as older
// than any release.
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
