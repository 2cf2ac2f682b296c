// Package version exposes the build metadata stamped into the binary.
package version

import "runtime/debug"

// Set at link time:
//
//	-X 'github.com/ankigen/ankigen/pkg/version.Version=v1.0.0'
//	-X 'github.com/ankigen/ankigen/pkg/version.CommitHash=abc123'
//	-X 'github.com/ankigen/ankigen/pkg/version.BuildDate=2024-01-01T00:00:00Z'
var (
	Version    = ""
	CommitHash = ""
	BuildDate  = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get resolves build metadata, preferring ldflags values and falling
// back to the module info the toolchain embeds on its own.
func Get() Info {
	info := Info{Version: Version, CommitHash: CommitHash, BuildDate: BuildDate}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.CommitHash == "" {
					info.CommitHash = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	if info.Version == "" || info.Version == "(devel)" {
		info.Version = "dev"
	}
	if info.CommitHash == "" {
		info.CommitHash = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

// GetVersion returns the resolved version string.
func GetVersion() string {
	return Get().Version
}
