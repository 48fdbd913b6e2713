package version

import "runtime"

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/wellpick/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

// Commit is the source revision, set at build time like Version.
var Commit = "unknown"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the info for `wellpick version`.
func (i Info) String() string {
	return "wellpick " + i.Version + " (" + i.Commit + ", " + i.GoVersion + ", " + i.Platform + ")"
}
