package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if !strings.Contains(info.Platform, runtime.GOOS) {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "v9.9.9", Commit: "abc123", GoVersion: "go1.25", Platform: "linux/amd64"}.String()
	if s != "wellpick v9.9.9 (abc123, go1.25, linux/amd64)" {
		t.Errorf("unexpected string %q", s)
	}
}
