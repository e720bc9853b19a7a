package cli

import (
	"runtime/debug"
	"strings"
)

const (
	devVersion         = "dev"
	goDevelMainVersion = "(devel)"
)

var readBuildInfo = debug.ReadBuildInfo

// resolvedVersion prefers an injected release version, then the module
// version, then the short vcs revision of the build.
func resolvedVersion(raw string) string {
	injected := strings.TrimSpace(raw)
	if injected != "" && injected != devVersion {
		return injected
	}
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return devVersion
	}
	if v := strings.TrimSpace(info.Main.Version); v != "" && v != goDevelMainVersion {
		return v
	}

	settings := map[string]string{}
	for _, setting := range info.Settings {
		settings[setting.Key] = strings.TrimSpace(setting.Value)
	}
	revision := settings["vcs.revision"]
	if revision == "" {
		return devVersion
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if strings.EqualFold(settings["vcs.modified"], "true") {
		revision += "-dirty"
	}
	return revision
}
