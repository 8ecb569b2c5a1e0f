// Package phases implements the build lifecycle: configure stages the
// hermetic workspace, build and test drive the go tool inside it,
// install lays artifacts into the package root, substvars records the
// provenance of what was compiled in, and clean removes the workspace.
package phases

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/config"
	"github.com/arthur-debert/gostage/pkg/control"
	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
	"github.com/arthur-debert/gostage/pkg/targets"
	"github.com/arthur-debert/gostage/pkg/toolchain"
)

// Options configures a phase invocation
type Options struct {
	// SourceDir is the unpacked package root, "." when empty
	SourceDir string
	// DryRun reports staging work without touching the tree
	DryRun bool
	// Verbose forwards -v to go install, like the debhelper switch
	Verbose bool
	// Flags pass through to the go tool on build and test
	Flags []string
	// DestDir is the install root, debian/tmp under SourceDir when empty
	DestDir string
	// NoBinaries installs sources only, NoSource binaries only
	NoBinaries bool
	NoSource   bool
	// OverlayRoot overrides where system Go sources are found
	OverlayRoot string
	// BuildDir overrides the configured workspace directory
	BuildDir string
	// Parallel caps go tool parallelism ahead of DEB_BUILD_OPTIONS
	Parallel int
}

func (o Options) sourceDir() string {
	if o.SourceDir == "" {
		return "."
	}
	return o.SourceDir
}

// Phases runs lifecycle steps over shared wiring
type Phases struct {
	fs     fsys.FS
	runner toolchain.Runner
	logger zerolog.Logger
}

// New creates the lifecycle over fs and runner
func New(fs fsys.FS, runner toolchain.Runner) *Phases {
	return &Phases{
		fs:     fs,
		runner: runner,
		logger: logging.GetLogger("phases"),
	}
}

// buildContext is the resolved environment the phases share
type buildContext struct {
	cfg        *config.Config
	ctl        *control.File
	sourceDir  string
	buildRoot  string
	importPath string
	gotool     *toolchain.GoTool
}

// prepare loads configuration and the control file and resolves the
// canonical import path. DH_GOPKG wins over XS-Go-Import-Path; having
// neither is fatal.
func (p *Phases) prepare(opts Options) (*buildContext, error) {
	sourceDir := opts.sourceDir()

	cfg, err := config.Load(sourceDir)
	if err != nil {
		return nil, err
	}
	// Command line flags outrank every configuration layer
	if opts.BuildDir != "" {
		cfg.BuildDir = opts.BuildDir
	}
	if opts.Parallel > 0 {
		cfg.Parallel = opts.Parallel
	}
	ctl, err := control.Load(p.fs, sourceDir)
	if err != nil {
		return nil, err
	}

	controlIP, ipErr := ctl.ImportPath()
	importPath := cfg.EffectiveImportPath(controlIP)
	if importPath == "" {
		if ipErr != nil {
			return nil, ipErr
		}
		return nil, errors.New(errors.ErrImportPathUnset, "import path is empty")
	}

	buildRoot := cfg.BuildRoot(sourceDir)
	env := toolchain.BuildEnv(cfg, buildRoot)

	p.logger.Debug().
		Str("importPath", importPath).
		Str("buildRoot", buildRoot).
		Msg("Build context prepared")
	return &buildContext{
		cfg:        cfg,
		ctl:        ctl,
		sourceDir:  sourceDir,
		buildRoot:  buildRoot,
		importPath: importPath,
		gotool:     toolchain.NewGoTool(p.runner, buildRoot, env),
	}, nil
}

// resolveTargets expands the configured patterns minus excludes
func (p *Phases) resolveTargets(ctx context.Context, bc *buildContext) ([]string, error) {
	filter, err := targets.CompileExcludes(bc.cfg.Excludes)
	if err != nil {
		return nil, err
	}
	resolver := targets.NewResolver(bc.gotool)
	return resolver.Resolve(ctx, targets.Patterns(bc.cfg, bc.importPath), filter)
}
