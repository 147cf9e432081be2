// Package version reports which repo2prompt build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X repo2prompt/pkg/version.Version=...". When left at
// their defaults, Get falls back to the module build info embedded by
// `go install` and `go build`.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

// fillFromBuildInfo only replaces fields still at their defaults.
func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "none" && s.Value != "" {
				info.GitCommit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.BuildTime == "unknown" && s.Value != "" {
				info.BuildTime = s.Value
			}
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String renders the line printed by `repo2prompt version`.
func (i Info) String() string {
	return fmt.Sprintf("repo2prompt version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
