package mediaprobe

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the mediaprobe library.
const Version = "0.2.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	Revision  string // VCS revision, "" when not stamped
	Modified  bool   // built from a dirty tree
	GoVersion string
}

func (v VersionInfo) String() string {
	s := "mediaprobe " + v.Version
	if v.Revision != "" {
		rev := v.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		s += " (" + rev
		if v.Modified {
			s += "+dirty"
		}
		s += ")"
	}
	return fmt.Sprintf("%s %s", s, v.GoVersion)
}

// GetVersionInfo reports the library version together with the VCS stamp
// the Go toolchain embeds in binaries built from a checkout.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{Version: Version, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
