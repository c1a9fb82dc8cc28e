package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/ccview/pkg/version.Version=v0.2.0"
var Version = "v0.1.0"

// Commit is the VCS revision the binary was built from, when known.
var Commit = ""

func init() {
	if Commit != "" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		}
	}
}

// String returns the one-line version banner printed by `ccv version`.
func String() string {
	if Commit == "" {
		return fmt.Sprintf("ccv %s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("ccv %s (%s, %s/%s)", Version, Commit, runtime.GOOS, runtime.GOARCH)
}
