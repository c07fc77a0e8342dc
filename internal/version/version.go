// Package version carries build metadata for the store binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set at build time via -ldflags "-X github.com/frankwiles/store-cli/internal/version.Version=...".
// Binaries built with `go install ...@vX` fall back to the module build info.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the resolved build metadata.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	Modified  bool
}

var (
	resolveOnce sync.Once
	resolved    Info
)

// Get returns the build metadata, preferring ldflags values over the
// module build info embedded by the go command.
func Get() Info {
	resolveOnce.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		resolved = fromBuildInfo(Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}, bi)
	})
	return resolved
}

func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if bi == nil {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" && s.Value != "" {
				info.GitCommit = s.Value
				if len(info.GitCommit) > 12 {
					info.GitCommit = info.GitCommit[:12]
				}
			}
		case "vcs.time":
			if info.BuildDate == "unknown" && s.Value != "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}

	return info
}

// Full is the --version output.
func Full() string {
	info := Get()
	commit := info.GitCommit
	if info.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s, %s/%s)",
		info.Version, commit, info.BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the User-Agent header sent with store requests.
func UserAgent() string {
	return fmt.Sprintf("store-cli/%s (%s/%s)", Get().Version, runtime.GOOS, runtime.GOARCH)
}
