package phases

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/gostage/pkg/classify"
	"github.com/arthur-debert/gostage/pkg/workspace"
)

// ConfigureResult reports what staging changed
type ConfigureResult struct {
	ImportPath string `json:"importPath"`
	BuildRoot  string `json:"buildRoot"`
	// Staged counts operations applied, Skipped destinations that were
	// already in place from an earlier run
	Staged  int                       `json:"staged"`
	Skipped int                       `json:"skipped"`
	Overlay []workspace.OverlayResult `json:"overlay,omitempty"`
}

// Configure materializes the hermetic workspace: the package sources
// staged under BuildRoot/src/<ImportPath>, with the system Go source
// tree overlaid beside them for dependencies. Running it again over a
// staged tree changes nothing.
func (p *Phases) Configure(ctx context.Context, opts Options) (*ConfigureResult, error) {
	bc, err := p.prepare(opts)
	if err != nil {
		return nil, err
	}
	return p.stage(ctx, bc, opts.DryRun, opts.OverlayRoot)
}

func (p *Phases) stage(ctx context.Context, bc *buildContext, dryRun bool, overlayRoot string) (*ConfigureResult, error) {
	scanner := workspace.NewScanner(p.fs, classify.New(bc.cfg))
	entries, err := scanner.Scan(bc.sourceDir, bc.buildRoot)
	if err != nil {
		return nil, err
	}

	plan, err := workspace.BuildPlan(p.fs, workspace.PlanRequest{
		Entries:    entries,
		SourceDir:  bc.sourceDir,
		BuildRoot:  bc.buildRoot,
		ImportPath: bc.importPath,
	})
	if err != nil {
		return nil, err
	}

	executor := workspace.NewExecutor(workspace.ExecutorOptions{DryRun: dryRun})
	results, err := executor.Apply(ctx, plan)
	if err != nil {
		return nil, err
	}

	result := &ConfigureResult{
		ImportPath: bc.importPath,
		BuildRoot:  bc.buildRoot,
		Staged:     len(results),
		Skipped:    len(plan.Skipped),
	}
	if dryRun {
		p.logger.Info().Msg("Dry run, not overlaying system sources")
		return result, nil
	}

	overlay := workspace.NewOverlay(p.fs, overlayRoot)
	links, err := overlay.Link(filepath.Join(bc.buildRoot, "src"), bc.importPath)
	if err != nil {
		return nil, err
	}
	result.Overlay = links

	p.logger.Info().
		Str("importPath", bc.importPath).
		Int("staged", result.Staged).
		Int("skipped", result.Skipped).
		Int("overlay", len(links)).
		Msg("Workspace configured")
	return result, nil
}
