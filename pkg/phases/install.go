package phases

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/gostage/pkg/classify"
	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/targets"
	"github.com/arthur-debert/gostage/pkg/toolchain"
	"github.com/arthur-debert/gostage/pkg/workspace"
)

// GocodeDir is where installed Go sources live relative to the
// install root
const GocodeDir = "usr/share/gocode/src"

// InstallResult reports what landed in the install root
type InstallResult struct {
	DestDir     string   `json:"destDir"`
	Binaries    []string `json:"binaries,omitempty"`
	SourceFiles int      `json:"sourceFiles"`
	Aliases     []string `json:"aliases,omitempty"`
}

// Install lays build artifacts into the package install root: the
// compiled binaries under usr/bin, the staged source tree under
// usr/share/gocode/src, and a relative symlink per import path alias
// beside the canonical tree.
func (p *Phases) Install(ctx context.Context, opts Options) (*InstallResult, error) {
	bc, err := p.prepare(opts)
	if err != nil {
		return nil, err
	}
	if _, err := p.stage(ctx, bc, false, opts.OverlayRoot); err != nil {
		return nil, err
	}

	destDir := opts.DestDir
	if destDir == "" {
		destDir = bc.cfg.DestDir
	}
	if destDir == "" {
		destDir = filepath.Join(bc.sourceDir, "debian", "tmp")
	}
	result := &InstallResult{DestDir: destDir}

	if !opts.NoBinaries {
		if err := p.installBinaries(ctx, bc, destDir, result); err != nil {
			return nil, err
		}
	}
	if !opts.NoSource {
		if err := p.installSources(ctx, bc, destDir, result); err != nil {
			return nil, err
		}
	}

	p.logger.Info().
		Str("destDir", destDir).
		Int("binaries", len(result.Binaries)).
		Int("sourceFiles", result.SourceFiles).
		Msg("Install complete")
	return result, nil
}

// installBinaries copies everything go install produced into
// DESTDIR/usr/bin. Cross builds put binaries under a goos_goarch
// subdirectory, which wins when present.
func (p *Phases) installBinaries(ctx context.Context, bc *buildContext, destDir string, result *InstallResult) error {
	binDir := filepath.Join(bc.buildRoot, "bin")
	if bc.cfg.IsCrossCompiling() {
		crossDir := filepath.Join(binDir,
			toolchain.GoOS(bc.cfg.HostArchOS)+"_"+toolchain.GoArch(bc.cfg.HostArchCPU))
		if _, err := p.fs.Stat(crossDir); err == nil {
			binDir = crossDir
		}
	}

	dirents, err := p.fs.ReadDir(binDir)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Debug().Str("binDir", binDir).Msg("No binaries to install")
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", binDir)
	}

	var entries []workspace.Entry
	for _, de := range dirents {
		if !de.Type().IsRegular() {
			continue
		}
		entries = append(entries, workspace.Entry{Rel: de.Name(), Exec: true})
		result.Binaries = append(result.Binaries, de.Name())
	}
	if len(entries) == 0 {
		return nil
	}

	plan, err := workspace.BuildPlanInto(p.fs, entries, binDir,
		filepath.Join(destDir, "usr", "bin"))
	if err != nil {
		return err
	}
	_, err = workspace.NewExecutor(workspace.ExecutorOptions{}).Apply(ctx, plan)
	return err
}

// installSources copies the staged tree under usr/share/gocode/src and
// publishes the alias symlinks. With exclusions applying to install,
// excluded packages stay out of the shipped sources too.
func (p *Phases) installSources(ctx context.Context, bc *buildContext, destDir string, result *InstallResult) error {
	stagedDir := filepath.Join(bc.buildRoot, "src", filepath.FromSlash(bc.importPath))

	// Everything staged goes along, not only build inputs.
	installCfg := *bc.cfg
	installCfg.InstallAll = true
	scanner := workspace.NewScanner(p.fs, classify.New(&installCfg))
	entries, err := scanner.Scan(stagedDir, bc.buildRoot)
	if err != nil {
		return err
	}

	if bc.cfg.ExcludesAll && len(bc.cfg.Excludes) > 0 {
		filter, err := targets.CompileExcludes(bc.cfg.Excludes)
		if err != nil {
			return err
		}
		kept := entries[:0]
		for _, entry := range entries {
			if filter.Match(path.Join(bc.importPath, entry.Rel)) {
				p.logger.Debug().Str("path", entry.Rel).Msg("Excluded from install")
				continue
			}
			kept = append(kept, entry)
		}
		entries = kept
	}

	srcRoot := filepath.Join(destDir, filepath.FromSlash(GocodeDir))
	destBase := filepath.Join(srcRoot, filepath.FromSlash(bc.importPath))
	plan, err := workspace.BuildPlanInto(p.fs, entries, stagedDir, destBase)
	if err != nil {
		return err
	}
	results, err := workspace.NewExecutor(workspace.ExecutorOptions{}).Apply(ctx, plan)
	if err != nil {
		return err
	}
	result.SourceFiles = countFileOps(results)

	return p.installAliases(ctx, bc, srcRoot, result)
}

// installAliases plants a relative symlink per secondary import path,
// pointing at the canonical tree.
func (p *Phases) installAliases(ctx context.Context, bc *buildContext, srcRoot string, result *InstallResult) error {
	aliases := bc.ctl.ImportPathAliases()
	if len(aliases) == 0 {
		return nil
	}

	canonical := filepath.Join(srcRoot, filepath.FromSlash(bc.importPath))
	var entries []workspace.Entry
	for _, alias := range aliases {
		linkDir := filepath.Dir(filepath.Join(srcRoot, filepath.FromSlash(alias)))
		target, err := filepath.Rel(linkDir, canonical)
		if err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate,
				"cannot express alias %s relative to %s", alias, bc.importPath)
		}
		entries = append(entries, workspace.Entry{
			Rel:        alias,
			IsLink:     true,
			LinkTarget: target,
		})
		result.Aliases = append(result.Aliases, alias)
	}

	plan, err := workspace.BuildPlanInto(p.fs, entries, srcRoot, srcRoot)
	if err != nil {
		return err
	}
	_, err = workspace.NewExecutor(workspace.ExecutorOptions{}).Apply(ctx, plan)
	return err
}

func countFileOps(results []workspace.OpResult) int {
	count := 0
	for _, res := range results {
		if res.Op.Kind == workspace.OpCopy || res.Op.Kind == workspace.OpSymlink {
			count++
		}
	}
	return count
}
