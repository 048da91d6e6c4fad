package config

// Build metadata stamped by the linker. Release builds pass -ldflags, e.g.:
//
//	go build -ldflags "-X wavefront/internal/config.version=1.2.3 \
//	    -X wavefront/internal/config.commit=$(git rev-parse --short HEAD) \
//	    -X wavefront/internal/config.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Without ldflags (local development) the placeholder values below apply.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo packages the stamped variables into a BuildInfo. Called once
// at startup to fill Config.Build.
func NewBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
}
