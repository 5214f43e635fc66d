package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/devscan/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/devscan/internal/version.Commit=abc1234" ./cmd/devscan
//
// Unset values are taken from the module's VCS stamp, then fall back to
// a dev version and "unknown".
var (
	// Version is the release version of devscan
	Version = ""
	// Commit is the short git revision devscan was built from
	Commit = ""
)

// shortRevision is the number of revision characters kept.
const shortRevision = 7

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		v, c := fromBuildInfo(info)
		if Version == "" {
			Version = v
		}
		if Commit == "" {
			Commit = c
		}
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo derives a version and commit from the VCS settings Go
// stamps into binaries built inside a repository. A module version
// (installed with "go install ...@v1.2.3") wins over the commit date.
func fromBuildInfo(info *debug.BuildInfo) (version, commit string) {
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; rev != "" {
		if len(rev) > shortRevision {
			rev = rev[:shortRevision]
		}
		if settings["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		commit = rev
	}

	switch {
	case info.Main.Version != "" && info.Main.Version != "(devel)":
		version = info.Main.Version
	case settings["vcs.time"] != "":
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			version = "dev-" + t.Format("20060102")
		}
	}
	return version, commit
}

// Detailed returns the version block printed by "devscan version".
func Detailed() string {
	return fmt.Sprintf("devscan %s\ncommit: %s\ngo: %s %s/%s\n",
		Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
