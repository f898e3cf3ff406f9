package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestGet(t *testing.T) {
	vcs := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.2.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name    string
		stamped [3]string
		bi      *debug.BuildInfo
		want    Info
	}{
		{
			name:    "no build info",
			stamped: [3]string{unsetVersion, unsetCommit, unsetDate},
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:    "toolchain stamps",
			stamped: [3]string{unsetVersion, unsetCommit, unsetDate},
			bi:      vcs,
			want:    Info{Version: "v0.2.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z"},
		},
		{
			name:    "ldflags win",
			stamped: [3]string{"v1.0.0", "fff", "2026-10-01"},
			bi:      vcs,
			want:    Info{Version: "v1.0.0", Commit: "fff", Date: "2026-10-01"},
		},
		{
			name:    "devel module",
			stamped: [3]string{unsetVersion, unsetCommit, unsetDate},
			bi:      &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.stamped[0], tt.stamped[1], tt.stamped[2])
			stubBuildInfo(t, tt.bi)
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.0.0", "fff", "2026-10-01")
	stubBuildInfo(t, nil)

	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.0.0\n") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.Contains(got, "commit: fff") {
		t.Errorf("String() = %q", got)
	}
}
