package mediaprobe

import (
	"runtime"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestVersionInfo_String(t *testing.T) {
	tests := []struct {
		name string
		info VersionInfo
		want string
	}{
		{"unstamped", VersionInfo{Version: "1.0.0", GoVersion: "go1.26.0"}, "mediaprobe 1.0.0 go1.26.0"},
		{
			"revision",
			VersionInfo{Version: "1.0.0", Revision: "0123456789abcdef", GoVersion: "go1.26.0"},
			"mediaprobe 1.0.0 (0123456789ab) go1.26.0",
		},
		{
			"dirty",
			VersionInfo{Version: "1.0.0", Revision: "abc", Modified: true, GoVersion: "go1.26.0"},
			"mediaprobe 1.0.0 (abc+dirty) go1.26.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
