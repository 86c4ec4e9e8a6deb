// Package version holds the build version, set at link time:
//
//	go build -ldflags "-X github.com/Dicklesworthstone/deck_viewer/pkg/version.Version=v0.3.0" ./cmd/dv
package version

// Version is the current release tag.
var Version = "v0.1.0"
