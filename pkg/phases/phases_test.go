package phases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/gostage/pkg/config"
	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/toolchain"
)

const controlText = `Source: example-tool
Maintainer: Debian Go Packaging Team <team+pkg-go@tracker.debian.org>
Section: golang
XS-Go-Import-Path: example.com/tool

Package: example-tool
Architecture: any

Package: example-tool-doc
Architecture: all
`

// fakeRunner answers the go and dpkg invocations the phases make with
// canned output and records every call.
type fakeRunner struct {
	listOut   string
	depsOut   string
	jsonOut   string
	searchOut string
	queryOut  string
	runErr    error

	outputs [][]string
	runs    [][]string
}

func (r *fakeRunner) Output(_ context.Context, cmd toolchain.Command) (string, error) {
	call := append([]string{cmd.Name}, cmd.Args...)
	r.outputs = append(r.outputs, call)

	switch {
	case cmd.Name == "go" && len(cmd.Args) > 1 && cmd.Args[0] == "list" && cmd.Args[1] == "-deps":
		return r.depsOut, nil
	case cmd.Name == "go" && len(cmd.Args) > 1 && cmd.Args[0] == "list" && cmd.Args[1] == "-json":
		return r.jsonOut, nil
	case cmd.Name == "go" && cmd.Args[0] == "list":
		return r.listOut, nil
	case cmd.Name == "dpkg":
		return r.searchOut, nil
	case cmd.Name == "dpkg-query":
		return r.queryOut, nil
	}
	return "", fmt.Errorf("unexpected command: %s %v", cmd.Name, cmd.Args)
}

func (r *fakeRunner) Run(_ context.Context, cmd toolchain.Command) error {
	r.runs = append(r.runs, append([]string{cmd.Name}, cmd.Args...))
	return r.runErr
}

// clearBuildEnv pins every variable the configuration reads, so the
// ambient build environment cannot leak into a test.
func clearBuildEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvImportPath, config.EnvInstallExtra, config.EnvInstallAll,
		config.EnvBuildPkg, config.EnvExcludes, config.EnvExcludesAll,
		config.EnvGoGenerate, config.EnvBuildDir, config.EnvBuildOptions,
		config.EnvDestDir, config.EnvHostGnuType, config.EnvBuildGnuType,
		config.EnvHostArch, config.EnvHostArchOS, config.EnvHostArchCPU,
	} {
		t.Setenv(key, "")
	}
}

func writeTreeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// sourceTree lays out a minimal unpacked package: a main package, a
// library package, and the control file.
func sourceTree(t *testing.T, control string) string {
	t.Helper()
	dir := t.TempDir()
	writeTreeFile(t, dir, "debian/control", control)
	writeTreeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	writeTreeFile(t, dir, "pkg/util/util.go", "package util\n")
	return dir
}

// phaseOpts points the overlay at a directory that does not exist, so
// whatever the test host has under /usr/share/gocode stays out.
func phaseOpts(sourceDir string) Options {
	return Options{
		SourceDir:   sourceDir,
		OverlayRoot: filepath.Join(sourceDir, "no-overlay-here"),
	}
}

func stagedPath(sourceDir, rel string) string {
	return filepath.Join(sourceDir, config.DefaultBuildDir, "src", "example.com", "tool",
		filepath.FromSlash(rel))
}

func TestConfigureStagesSources(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	runner := &fakeRunner{}
	p := New(fsys.NewOS(), runner)

	result, err := p.Configure(context.Background(), phaseOpts(src))
	require.NoError(t, err)

	assert.Equal(t, "example.com/tool", result.ImportPath)
	assert.Equal(t, filepath.Join(src, config.DefaultBuildDir), result.BuildRoot)
	assert.Greater(t, result.Staged, 0)

	data, err := os.ReadFile(stagedPath(src, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package main")
	assert.FileExists(t, stagedPath(src, "pkg/util/util.go"))

	// Packaging metadata stays out of the workspace.
	_, err = os.Stat(stagedPath(src, "debian/control"))
	assert.True(t, os.IsNotExist(err))

	// Configure is pure staging, no tool runs.
	assert.Empty(t, runner.outputs)
	assert.Empty(t, runner.runs)
}

func TestConfigureIsIdempotent(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	p := New(fsys.NewOS(), &fakeRunner{})

	first, err := p.Configure(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	require.Greater(t, first.Staged, 0)

	second, err := p.Configure(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Staged)
	assert.Greater(t, second.Skipped, 0)
}

func TestConfigureDryRunTouchesNothing(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	p := New(fsys.NewOS(), &fakeRunner{})

	opts := phaseOpts(src)
	opts.DryRun = true
	result, err := p.Configure(context.Background(), opts)
	require.NoError(t, err)

	assert.Greater(t, result.Staged, 0)
	_, err = os.Stat(filepath.Join(src, config.DefaultBuildDir))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigureOverlaysSystemSources(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	overlayRoot := t.TempDir()
	writeTreeFile(t, overlayRoot, "github.com/other/lib/lib.go", "package lib\n")

	p := New(fsys.NewOS(), &fakeRunner{})
	opts := phaseOpts(src)
	opts.OverlayRoot = overlayRoot
	result, err := p.Configure(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Overlay, 1)

	linked := filepath.Join(src, config.DefaultBuildDir, "src", "github.com")
	info, err := os.Lstat(linked)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)

	target, err := os.Readlink(linked)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(overlayRoot, "github.com"), target)
}

func TestConfigureRequiresImportPath(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, "Source: example-tool\n\nPackage: example-tool\nArchitecture: any\n")
	p := New(fsys.NewOS(), &fakeRunner{})

	_, err := p.Configure(context.Background(), phaseOpts(src))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrImportPathUnset))
}

func TestBuildCompilesResolvedTargets(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\nexample.com/tool/pkg/util\n"}
	p := New(fsys.NewOS(), runner)

	result, err := p.Build(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/tool", "example.com/tool/pkg/util"}, result.Targets)
	assert.False(t, result.Generated)

	require.Len(t, runner.outputs, 1)
	assert.Equal(t, []string{"go", "list", "example.com/tool/..."}, runner.outputs[0])

	require.Len(t, runner.runs, 1)
	install := runner.runs[0]
	assert.Equal(t, "go", install[0])
	assert.Equal(t, "install", install[1])
	assert.Contains(t, install, "-trimpath")
	assert.NotContains(t, install, "-v")
	assert.Contains(t, install, "example.com/tool")
	assert.Contains(t, install, "example.com/tool/pkg/util")
}

func TestBuildStagesWorkspaceFirst(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\n"}
	p := New(fsys.NewOS(), runner)

	_, err := p.Build(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.FileExists(t, stagedPath(src, "main.go"))
}

func TestBuildHonorsExcludes(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvExcludes, "util")
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\nexample.com/tool/pkg/util\n"}
	p := New(fsys.NewOS(), runner)

	result, err := p.Build(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/tool"}, result.Targets)

	install := runner.runs[0]
	assert.NotContains(t, install, "example.com/tool/pkg/util")
}

func TestBuildRunsGoGenerateWhenConfigured(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvGoGenerate, "1")
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\n"}
	p := New(fsys.NewOS(), runner)

	result, err := p.Build(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.True(t, result.Generated)

	require.Len(t, runner.runs, 2)
	assert.Equal(t, "generate", runner.runs[0][1])
	assert.Equal(t, "install", runner.runs[1][1])
}

func TestBuildPassesFlagsAndParallel(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvBuildOptions, "parallel=4")
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\n"}
	p := New(fsys.NewOS(), runner)

	opts := phaseOpts(src)
	opts.Flags = []string{"-ldflags=-w"}
	_, err := p.Build(context.Background(), opts)
	require.NoError(t, err)

	install := strings.Join(runner.runs[0], " ")
	assert.Contains(t, install, "-p 4")
	assert.Contains(t, install, "-ldflags=-w")
}

func TestBuildVerboseEchoesPackages(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\n"}
	p := New(fsys.NewOS(), runner)

	opts := phaseOpts(src)
	opts.Verbose = true
	_, err := p.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, runner.runs[0], "-v")
}

func TestBuildParallelFlagOutranksEnvironment(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvBuildOptions, "parallel=4")
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\n"}
	p := New(fsys.NewOS(), runner)

	opts := phaseOpts(src)
	opts.Parallel = 2
	_, err := p.Build(context.Background(), opts)
	require.NoError(t, err)

	install := strings.Join(runner.runs[0], " ")
	assert.Contains(t, install, "-p 2")
	assert.NotContains(t, install, "-p 4")
}

func TestConfigureBuildDirOverride(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	p := New(fsys.NewOS(), &fakeRunner{})

	opts := phaseOpts(src)
	opts.BuildDir = "dist-build"
	result, err := p.Configure(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(src, "dist-build"), result.BuildRoot)
	assert.FileExists(t, filepath.Join(src, "dist-build", "src", "example.com", "tool", "main.go"))
	_, err = os.Stat(filepath.Join(src, config.DefaultBuildDir))
	assert.True(t, os.IsNotExist(err))
}

func TestTestRunsGoTest(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	runner := &fakeRunner{listOut: "example.com/tool\n"}
	p := New(fsys.NewOS(), runner)

	result, err := p.Test(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, []string{"example.com/tool"}, result.Targets)

	require.Len(t, runner.runs, 1)
	test := runner.runs[0]
	assert.Equal(t, "test", test[1])
	assert.Contains(t, test, "-vet=off")
	assert.Contains(t, test, "example.com/tool")
}

func TestTestSkipsOnNocheck(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvBuildOptions, "nocheck")
	src := sourceTree(t, controlText)
	runner := &fakeRunner{}
	p := New(fsys.NewOS(), runner)

	result, err := p.Test(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, runner.runs)
	assert.Empty(t, runner.outputs)
}

func TestTestSkipsWhenCrossBuilding(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvHostGnuType, "aarch64-linux-gnu")
	t.Setenv(config.EnvBuildGnuType, "x86_64-linux-gnu")
	src := sourceTree(t, controlText)
	runner := &fakeRunner{}
	p := New(fsys.NewOS(), runner)

	result, err := p.Test(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, runner.runs)
}

func TestInstallLaysOutBinariesAndSources(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)

	// A previous build left a binary in the workspace.
	binDir := filepath.Join(src, config.DefaultBuildDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "tool"), []byte("#!elf"), 0o755))

	p := New(fsys.NewOS(), &fakeRunner{})
	result, err := p.Install(context.Background(), phaseOpts(src))
	require.NoError(t, err)

	destDir := filepath.Join(src, "debian", "tmp")
	assert.Equal(t, destDir, result.DestDir)
	assert.Equal(t, []string{"tool"}, result.Binaries)
	assert.Greater(t, result.SourceFiles, 0)

	installed := filepath.Join(destDir, "usr", "bin", "tool")
	info, err := os.Stat(installed)
	require.NoError(t, err)
	assert.True(t, info.Mode()&0111 != 0, "installed binary must stay executable")

	assert.FileExists(t, filepath.Join(destDir, "usr", "share", "gocode", "src",
		"example.com", "tool", "main.go"))
	assert.FileExists(t, filepath.Join(destDir, "usr", "share", "gocode", "src",
		"example.com", "tool", "pkg", "util", "util.go"))
}

func TestInstallPublishesImportPathAliases(t *testing.T) {
	clearBuildEnv(t)
	control := strings.Replace(controlText,
		"XS-Go-Import-Path: example.com/tool",
		"XS-Go-Import-Path: example.com/tool, example.org/alias", 1)
	src := sourceTree(t, control)

	p := New(fsys.NewOS(), &fakeRunner{})
	result, err := p.Install(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"example.org/alias"}, result.Aliases)

	link := filepath.Join(src, "debian", "tmp", "usr", "share", "gocode", "src",
		"example.org", "alias")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "example.com", "tool"), target)

	// The link resolves to the canonical tree.
	assert.FileExists(t, filepath.Join(link, "main.go"))
}

func TestInstallNoBinaries(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	binDir := filepath.Join(src, config.DefaultBuildDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "tool"), []byte("#!elf"), 0o755))

	p := New(fsys.NewOS(), &fakeRunner{})
	opts := phaseOpts(src)
	opts.NoBinaries = true
	result, err := p.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, result.Binaries)
	_, err = os.Stat(filepath.Join(src, "debian", "tmp", "usr", "bin"))
	assert.True(t, os.IsNotExist(err))
	assert.Greater(t, result.SourceFiles, 0)
}

func TestInstallNoSource(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	binDir := filepath.Join(src, config.DefaultBuildDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "tool"), []byte("#!elf"), 0o755))

	p := New(fsys.NewOS(), &fakeRunner{})
	opts := phaseOpts(src)
	opts.NoSource = true
	result, err := p.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"tool"}, result.Binaries)
	assert.Equal(t, 0, result.SourceFiles)
	_, err = os.Stat(filepath.Join(src, "debian", "tmp", "usr", "share"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallExcludesAllFiltersSources(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv(config.EnvExcludes, "pkg/util")
	src := sourceTree(t, controlText)

	p := New(fsys.NewOS(), &fakeRunner{})
	result, err := p.Install(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	require.Greater(t, result.SourceFiles, 0)

	gocode := filepath.Join(src, "debian", "tmp", "usr", "share", "gocode", "src",
		"example.com", "tool")
	assert.FileExists(t, filepath.Join(gocode, "main.go"))
	_, err = os.Stat(filepath.Join(gocode, "pkg", "util", "util.go"))
	assert.True(t, os.IsNotExist(err), "excluded package must not be shipped")
}

func TestInstallBothSuppressed(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	binDir := filepath.Join(src, config.DefaultBuildDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "tool"), []byte("#!elf"), 0o755))

	p := New(fsys.NewOS(), &fakeRunner{})
	opts := phaseOpts(src)
	opts.NoBinaries = true
	opts.NoSource = true
	result, err := p.Install(context.Background(), opts)
	require.NoError(t, err, "suppressing both payloads is not an error")

	assert.Empty(t, result.Binaries)
	assert.Equal(t, 0, result.SourceFiles)
	assert.Empty(t, result.Aliases)
	_, err = os.Stat(filepath.Join(src, "debian", "tmp", "usr"))
	assert.True(t, os.IsNotExist(err), "empty payload must install nothing")
}

func TestInstallCustomDestDir(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	destDir := t.TempDir()

	p := New(fsys.NewOS(), &fakeRunner{})
	opts := phaseOpts(src)
	opts.DestDir = destDir
	result, err := p.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, destDir, result.DestDir)
	assert.FileExists(t, filepath.Join(destDir, "usr", "share", "gocode", "src",
		"example.com", "tool", "main.go"))
}

func TestInstallDestDirFromEnvironment(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	destDir := t.TempDir()
	t.Setenv(config.EnvDestDir, destDir)

	p := New(fsys.NewOS(), &fakeRunner{})
	result, err := p.Install(context.Background(), phaseOpts(src))
	require.NoError(t, err)

	assert.Equal(t, destDir, result.DestDir)
	assert.FileExists(t, filepath.Join(destDir, "usr", "share", "gocode", "src",
		"example.com", "tool", "main.go"))
}

func TestSubstvarsWritesBuiltUsing(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)

	depDir := t.TempDir()
	depFile := filepath.Join(depDir, "errs.go")
	require.NoError(t, os.WriteFile(depFile, []byte("package errs\n"), 0o644))
	canonical, err := filepath.EvalSymlinks(depFile)
	require.NoError(t, err)
	canonical, err = filepath.Abs(canonical)
	require.NoError(t, err)

	runner := &fakeRunner{
		listOut:   "example.com/tool\n",
		depsOut:   "example.com/tool\ngithub.com/pkg/errs\n",
		jsonOut:   fmt.Sprintf(`{"Dir": %q, "ImportPath": "github.com/pkg/errs", "GoFiles": ["errs.go"]}`, depDir),
		searchOut: "libgolang-errs-dev: " + canonical + "\n",
		queryOut:  "libgolang-errs-dev\tgolang-errs (= 1.0-1)\n",
	}
	p := New(fsys.NewOS(), runner)

	result, err := p.Substvars(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"golang-errs (= 1.0-1)"}, result.Refs)
	assert.Equal(t, []string{"example-tool"}, result.Packages)

	data, err := os.ReadFile(filepath.Join(src, "debian", "example-tool.substvars"))
	require.NoError(t, err)
	assert.Equal(t, "misc:Built-Using=golang-errs (= 1.0-1)\n", string(data))

	// The arch-all package carries no compiled code and gets an empty
	// substvars file.
	data, err = os.ReadFile(filepath.Join(src, "debian", "example-tool-doc.substvars"))
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestSubstvarsNoExternalDeps(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	runner := &fakeRunner{
		listOut: "example.com/tool\n",
		depsOut: "example.com/tool\nexample.com/tool/pkg/util\n",
	}
	p := New(fsys.NewOS(), runner)

	result, err := p.Substvars(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Empty(t, result.Refs)

	// Still written, with nothing in it, so stale values cannot
	// survive a rebuild.
	data, err := os.ReadFile(filepath.Join(src, "debian", "example-tool.substvars"))
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestCleanRemovesWorkspace(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	p := New(fsys.NewOS(), &fakeRunner{})

	_, err := p.Configure(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	buildRoot := filepath.Join(src, config.DefaultBuildDir)
	require.DirExists(t, buildRoot)

	result, err := p.Clean(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Equal(t, buildRoot, result.Removed)
	_, err = os.Stat(buildRoot)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanNothingToDo(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	p := New(fsys.NewOS(), &fakeRunner{})

	result, err := p.Clean(context.Background(), phaseOpts(src))
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
}

func TestCleanDryRun(t *testing.T) {
	clearBuildEnv(t)
	src := sourceTree(t, controlText)
	p := New(fsys.NewOS(), &fakeRunner{})

	_, err := p.Configure(context.Background(), phaseOpts(src))
	require.NoError(t, err)

	opts := phaseOpts(src)
	opts.DryRun = true
	result, err := p.Clean(context.Background(), opts)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Removed)
	require.DirExists(t, filepath.Join(src, config.DefaultBuildDir))
}
