// Package version exposes the current SDK version.
package version

// Version is the current version of the SDK. It is overridden at link time for releases.
var Version = "dev"
