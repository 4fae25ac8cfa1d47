package app

import (
	"github.com/Masterminds/semver/v3"

	"github.com/ethcocoders/techtonicml-desktop/internal/config"
)

// VersionString creates a display version from build-time values. Tagged
// builds ("v1.2.3" or "1.2.3") are normalised to plain semver; anything else
// is treated as a development build of config.AppVersion.
func VersionString(version, commit string) string {
	if v, err := semver.NewVersion(version); err == nil {
		return v.String()
	}

	shortCommit := commit
	if len(shortCommit) > 7 {
		shortCommit = shortCommit[:7]
	}
	if shortCommit == "" || shortCommit == "unknown" {
		return config.AppVersion + "-dev"
	}
	return config.AppVersion + "-dev+" + shortCommit
}
