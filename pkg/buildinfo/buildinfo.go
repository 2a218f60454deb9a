// Package buildinfo contains build information.
//
// Some of the exported fields may be set during compilation by passing
// -ldflags "-X src.cmdl.sh/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"src.cmdl.sh/pkg/must"
	"src.cmdl.sh/pkg/prog"
)

// VersionBase is the version of cmdl without the development suffix. On
// development commits, it identifies the next release.
const VersionBase = "0.3.0"

// VCSOverride may be set during compilation to "time-commit" (e.g.
// "20220401235958-123456789012") for overriding the VCS information in the
// build information.
var VCSOverride string

// Type contains all the build information fields.
type Type struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Value contains all the build information.
var Value = Type{
	Version:   devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion: runtime.Version(),
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}

	var revision, timestamp string
	modified := false
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			t, err := time.Parse(time.RFC3339, setting.Value)
			if err != nil {
				return fallback
			}
			timestamp = t.Format("20060102150405")
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) < 12 || timestamp == "" {
		return fallback
	}
	version := fmt.Sprintf("%s-dev.0.%s-%s", next, timestamp, revision[:12])
	if modified {
		version += "-dirty"
	}
	return version
}

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false,
		"Output the cmdl version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false,
		"Output information about the cmdl build and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

func mustToJSON(v any) string {
	return string(must.OK1(json.Marshal(v)))
}
