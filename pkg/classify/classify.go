// Package classify decides which files from a package source tree
// belong in the build workspace. The decision is pure: it looks only at
// the relative path, never at file contents or the filesystem.
package classify

import (
	"path"
	"strings"

	"github.com/arthur-debert/gostage/pkg/config"
)

// Reason explains a classification, mostly for trace logging
type Reason string

const (
	ReasonInstallAll Reason = "install-all"
	ReasonExtra      Reason = "install-extra"
	ReasonTestdata   Reason = "testdata"
	ReasonSourceExt  Reason = "source-extension"
	ReasonSkipped    Reason = "not-a-source-file"
)

// sourceExtensions lists the file types a Go build can consume. Both
// assembler spellings are real: .s is assembled as-is, .S goes through
// the C preprocessor first.
var sourceExtensions = []string{
	".go", ".c", ".cc", ".cpp", ".h", ".hh", ".hpp", ".proto", ".s", ".S",
}

// Classifier applies the staging rules from a build configuration
type Classifier struct {
	installAll bool
	extra      []string
}

// New creates a classifier from the resolved configuration
func New(cfg *config.Config) *Classifier {
	extra := make([]string, 0, len(cfg.InstallExtra))
	for _, e := range cfg.InstallExtra {
		e = strings.TrimSuffix(strings.TrimSpace(e), "/")
		if e != "" {
			extra = append(extra, e)
		}
	}
	return &Classifier{
		installAll: cfg.InstallAll,
		extra:      extra,
	}
}

// Keep reports whether the file at relPath belongs in the workspace.
// relPath is slash separated and relative to the source root. Anything
// under a testdata directory rides along regardless of extension; a
// file literally named testdata does not.
func (c *Classifier) Keep(relPath string) (bool, Reason) {
	if c.installAll {
		return true, ReasonInstallAll
	}
	for _, e := range c.extra {
		if relPath == e || strings.HasPrefix(relPath, e+"/") {
			return true, ReasonExtra
		}
	}
	if underTestdata(path.Dir(relPath)) {
		return true, ReasonTestdata
	}
	if hasSourceExtension(relPath) {
		return true, ReasonSourceExt
	}
	return false, ReasonSkipped
}

func underTestdata(dir string) bool {
	if dir == "" || dir == "." {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if part == "testdata" {
			return true
		}
	}
	return false
}

func hasSourceExtension(relPath string) bool {
	ext := path.Ext(relPath)
	for _, e := range sourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
