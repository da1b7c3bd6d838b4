// Package version carries build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/soyeahso/adaudit/internal/version.Version=0.3.0
//	  -X github.com/soyeahso/adaudit/internal/version.Commit=abc123"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns the human readable build line printed by `adaudit version`.
func Info() string {
	return fmt.Sprintf("adaudit %s (commit: %s, built: %s, %s/%s)",
		Version, short(Commit), Date, runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent on outbound Bot API requests.
func UserAgent() string {
	return "adaudit/" + Version
}

func short(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
