package version

import (
	"runtime"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Version != Version {
		t.Errorf("Version = %v, want %v", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if got, want := info.Platform(), runtime.GOOS+"/"+runtime.GOARCH; got != want {
		t.Errorf("Platform() = %v, want %v", got, want)
	}
}

func TestShort(t *testing.T) {
	info := Info{Version: "v1.2.3", GitCommit: "abc123"}
	if got := info.Short(); got != "cw-expiry v1.2.3 (abc123)" {
		t.Errorf("Short() = %q", got)
	}
}
