// Package version holds build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/longkey1/omnichat/internal/version.Version=v0.1.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

// Short returns the version number
func Short() string {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return Version
}

// Info returns multi-line version details
func Info() string {
	return fmt.Sprintf("Version:    %s\nCommit:     %s\nBuild time: %s\nGo version: %s\nPlatform:   %s/%s",
		Short(), CommitSHA, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
