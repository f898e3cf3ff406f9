// Package buildinfo reports which symtower build is running.
//
// Release builds stamp the variables below:
//
//	go build -ldflags "-X github.com/matzehuels/symtower/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/symtower/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/symtower/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/symtower
//
// Unstamped fields fall back to what the Go toolchain recorded: the module
// version for go install builds, and the VCS revision and commit time for
// builds from a checkout.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const (
	unsetVersion = "dev"
	unsetCommit  = "none"
	unsetDate    = "unknown"
)

// Set via ldflags.
var (
	Version = unsetVersion
	Commit  = unsetCommit
	Date    = unsetDate
)

var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved build information. The API health check serves it.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Get resolves the build information.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == unsetVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == unsetCommit:
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == unsetDate:
			info.Date = s.Value
		}
	}
	return info
}

// String formats the build information for the version command.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
