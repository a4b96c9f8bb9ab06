// Package version holds build metadata stamped in through -ldflags.
package version

import "runtime/debug"

// Version is the semantic version of the rbtree binary.
var Version = "dev"

// Commit is the Git hash of the rbtree binary which is executing.
var Commit = "<unknown>"

// Date is the build timestamp.
var Date = "<unknown>"

func init() {
	if Commit != "<unknown>" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			Commit = setting.Value
		case "vcs.time":
			Date = setting.Value
		}
	}
}

// String formats the metadata on one line.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
