package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/vuengine/vsutrack/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with "-dirty"
// appended if the working tree had local modifications.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}()

// VersionOrHash is the best description of the build: Version if set, the
// module version when installed with go install, else Hash.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Hash
}()
