// Package compileinfo reads the VCS stamp that the go tool embeds in every
// binary, so a report can be traced back to the code that produced it.
package compileinfo

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary was built with %s at commit %v at time %v.%s", c.Package, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Fields renders the stamp for structured logging. Unknown values are
// omitted.
func (c CompileInfo) Fields() logrus.Fields {
	out := logrus.Fields{}
	for key, value := range map[string]string{
		"package":     c.Package,
		"go_version":  c.GoVersion,
		"commit":      c.Commit,
		"commit_time": c.CommitTime,
	} {
		if value != "" {
			out[key] = value
		}
	}
	if c.Modified {
		out["modified"] = true
	}

	return out
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		GoVersion: z.GoVersion,
		Package:   z.Path,
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

	return out
}

// Log writes the stamp to logger at info level.
func Log(logger logrus.FieldLogger) {
	logger.WithFields(Get().Fields()).Info("build")
}
