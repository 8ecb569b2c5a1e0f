package phases

import (
	"context"

	"github.com/arthur-debert/gostage/pkg/provenance"
	"github.com/arthur-debert/gostage/pkg/substvars"
	"github.com/arthur-debert/gostage/pkg/toolchain"
)

// SubstvarsResult reports the provenance that was published
type SubstvarsResult struct {
	// Refs are the source package references behind misc:Built-Using
	Refs []string `json:"refs"`
	// Packages are the binary packages that received the value;
	// arch-all packages only have stale assignments cleared
	Packages []string `json:"packages"`
}

// Substvars computes which source packages supplied the Go code
// compiled into the binaries and writes the result into each
// arch-dependent package's substvars file as misc:Built-Using.
func (p *Phases) Substvars(ctx context.Context, opts Options) (*SubstvarsResult, error) {
	bc, err := p.prepare(opts)
	if err != nil {
		return nil, err
	}
	if _, err := p.stage(ctx, bc, false, opts.OverlayRoot); err != nil {
		return nil, err
	}

	list, err := p.resolveTargets(ctx, bc)
	if err != nil {
		return nil, err
	}

	collector := provenance.NewCollector(bc.gotool, toolchain.NewDpkg(p.runner))
	refs, err := collector.BuiltUsing(ctx, list, provenance.Options{
		BuildRoot:  bc.buildRoot,
		ImportPath: bc.importPath,
	})
	if err != nil {
		return nil, err
	}

	if err := substvars.Apply(p.fs, bc.sourceDir, bc.ctl.Packages, refs); err != nil {
		return nil, err
	}

	result := &SubstvarsResult{Refs: refs}
	for _, pkg := range bc.ctl.Packages {
		if !pkg.IsArchAll() {
			result.Packages = append(result.Packages, pkg.Name)
		}
	}
	p.logger.Info().
		Int("refs", len(refs)).
		Int("packages", len(result.Packages)).
		Msg("Substvars written")
	return result, nil
}
