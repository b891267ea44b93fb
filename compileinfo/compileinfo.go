// Package compileinfo describes the build of the running binary, so that
// exported results can be traced back to the code and the numeric libraries
// that produced them.
package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
)

// Modules whose version can change computed values.
var tracked = []string{
	"gonum.org/v1/gonum",
	"github.com/montanaflynn/stats",
	"github.com/xuri/excelize/v2",
}

type Info struct {
	Binary     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Deps maps each tracked module present in the build to its version.
	Deps map[string]string
}

func (c Info) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s, built with %s", c.Binary, c.Version, c.GoVersion)
	if c.Commit != "" {
		fmt.Fprintf(&b, " at commit %s (%s)", c.Commit, c.CommitTime)
	}
	if c.Modified {
		b.WriteString(" with uncommitted changes")
	}
	for _, path := range tracked {
		if v, ok := c.Deps[path]; ok {
			fmt.Fprintf(&b, "; %s %s", path, v)
		}
	}
	b.WriteString(".")

	return b.String()
}

// Get reads the build information embedded by the Go toolchain. Fields are
// empty when it is unavailable, e.g. in tests.
func Get() Info {
	out := Info{Deps: make(map[string]string)}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) Info {
	out := Info{
		Binary:    z.Path,
		Version:   z.Main.Version,
		GoVersion: z.GoVersion,
		Deps:      make(map[string]string),
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	for _, dep := range z.Deps {
		for _, path := range tracked {
			if dep.Path == path {
				out.Deps[path] = dep.Version
			}
		}
	}

	return out
}

// Fprint writes the build description of the running binary to w.
func Fprint(w io.Writer) {
	fmt.Fprintln(w, Get())
}

func PrintToStdErr() {
	Fprint(os.Stderr)
}
