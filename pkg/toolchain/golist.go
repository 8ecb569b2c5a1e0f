package toolchain

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// Package is the slice of go list -json output the pipelines care
// about. The file lists stay relative to Dir, the way go list reports
// them.
type Package struct {
	Dir        string `json:"Dir"`
	ImportPath string `json:"ImportPath"`
	Standard   bool   `json:"Standard"`

	GoFiles        []string `json:"GoFiles"`
	CgoFiles       []string `json:"CgoFiles"`
	TestGoFiles    []string `json:"TestGoFiles"`
	XTestGoFiles   []string `json:"XTestGoFiles"`
	IgnoredGoFiles []string `json:"IgnoredGoFiles"`
}

// GoTool wraps the go command running inside the build workspace
type GoTool struct {
	runner Runner
	dir    string
	env    map[string]string
	logger zerolog.Logger
}

// NewGoTool creates a go tool wrapper working in buildRoot with the
// given environment overrides (normally the BuildEnv result)
func NewGoTool(runner Runner, buildRoot string, env map[string]string) *GoTool {
	return &GoTool{
		runner: runner,
		dir:    buildRoot,
		env:    env,
		logger: logging.GetLogger("toolchain.go"),
	}
}

func (g *GoTool) command(args ...string) Command {
	return Command{
		Name: "go",
		Args: args,
		Dir:  g.dir,
		Env:  g.env,
	}
}

// ExpandPatterns resolves go package patterns like example.com/tool/...
// into the import paths they match
func (g *GoTool) ExpandPatterns(ctx context.Context, patterns []string) ([]string, error) {
	args := append([]string{"list"}, patterns...)
	out, err := g.runner.Output(ctx, g.command(args...))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTargetList,
			"go list failed for patterns %v", patterns)
	}

	matches := splitLines(out)
	g.logger.Debug().
		Strs("patterns", patterns).
		Int("matches", len(matches)).
		Msg("Expanded package patterns")
	return matches, nil
}

// Deps returns the non-standard transitive dependencies of the targets,
// including the targets themselves
func (g *GoTool) Deps(ctx context.Context, targets []string) ([]string, error) {
	args := append([]string{
		"list", "-deps",
		"-f", "{{ if not .Standard }}{{ .ImportPath }}{{ end }}",
	}, targets...)
	out, err := g.runner.Output(ctx, g.command(args...))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDepsList, "go list -deps failed")
	}

	deps := splitLines(out)
	g.logger.Debug().Int("packages", len(deps)).Msg("Listed transitive dependencies")
	return deps, nil
}

// Packages returns the metadata for the given import paths
func (g *GoTool) Packages(ctx context.Context, importPaths []string) ([]Package, error) {
	args := append([]string{"list", "-json"}, importPaths...)
	out, err := g.runner.Output(ctx, g.command(args...))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDepsList, "go list -json failed")
	}

	// go list -json emits a stream of concatenated objects
	var pkgs []Package
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var p Package
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(err, errors.ErrToolOutput,
				"cannot decode go list -json output")
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}

// Generate runs go generate over the targets
func (g *GoTool) Generate(ctx context.Context, targets []string) error {
	args := append([]string{"generate", "-v"}, targets...)
	return g.runner.Run(ctx, g.command(args...))
}

// Install compiles the targets and places binaries under the workspace
// bin directory. Extra flags come before the targets, so callers can
// pass through -ldflags and friends. Verbose adds -v, following the
// debhelper verbosity switch rather than always echoing every package.
func (g *GoTool) Install(ctx context.Context, parallel int, verbose bool, flags, targets []string) error {
	args := []string{"install", "-trimpath"}
	if verbose {
		args = append(args, "-v")
	}
	if parallel > 0 {
		args = append(args, "-p", strconv.Itoa(parallel))
	}
	args = append(args, flags...)
	args = append(args, targets...)
	return g.runner.Run(ctx, g.command(args...))
}

// Test runs the package tests. Vet is off: the point here is running
// upstream's tests against the packaged toolchain, not relinting them.
func (g *GoTool) Test(ctx context.Context, parallel int, flags, targets []string) error {
	args := []string{"test", "-vet=off", "-v"}
	if parallel > 0 {
		args = append(args, "-p", strconv.Itoa(parallel))
	}
	args = append(args, flags...)
	args = append(args, targets...)
	return g.runner.Run(ctx, g.command(args...))
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
