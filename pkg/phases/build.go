package phases

import "context"

// BuildResult reports a build phase run
type BuildResult struct {
	Targets   []string `json:"targets"`
	Generated bool     `json:"generated"`
}

// Build compiles the configured targets inside the workspace. The
// workspace is staged first when needed, which costs nothing on an
// already configured tree.
func (p *Phases) Build(ctx context.Context, opts Options) (*BuildResult, error) {
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
	if len(list) == 0 {
		p.logger.Warn().Msg("Nothing to build")
		return &BuildResult{}, nil
	}

	result := &BuildResult{Targets: list}
	if bc.cfg.GoGenerate {
		if err := bc.gotool.Generate(ctx, list); err != nil {
			return nil, err
		}
		result.Generated = true
	}
	if err := bc.gotool.Install(ctx, bc.cfg.Parallel, opts.Verbose, opts.Flags, list); err != nil {
		return nil, err
	}

	p.logger.Info().Int("targets", len(list)).Msg("Build complete")
	return result, nil
}
