package cli

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = orig
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

func TestResolvedVersionPrefersInjectedVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}})

	if got := resolvedVersion("v1.2.3"); got != "v1.2.3" {
		t.Fatalf("expected injected version v1.2.3, got %q", got)
	}
}

func TestResolvedVersionUsesBuildInfoModuleVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}})

	if got := resolvedVersion(devVersion); got != "v0.4.0" {
		t.Fatalf("expected build info module version v0.4.0, got %q", got)
	}
}

func TestResolvedVersionUsesBuildInfoRevision(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: goDevelMainVersion},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	if got := resolvedVersion(""); got != "0123456789ab-dirty" {
		t.Fatalf("expected vcs revision fallback, got %q", got)
	}
}

func TestResolvedVersionFallsBackToDev(t *testing.T) {
	stubBuildInfo(t, nil)

	if got := resolvedVersion(""); got != devVersion {
		t.Fatalf("expected dev fallback, got %q", got)
	}
}
