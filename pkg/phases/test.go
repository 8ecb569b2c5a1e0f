package phases

import "context"

// TestResult reports a test phase run
type TestResult struct {
	Targets []string `json:"targets"`
	Skipped bool     `json:"skipped"`
}

// Test runs go test over the configured targets. The nocheck build
// option skips the run entirely; cross builds cannot execute the test
// binaries either, so they skip too.
func (p *Phases) Test(ctx context.Context, opts Options) (*TestResult, error) {
	bc, err := p.prepare(opts)
	if err != nil {
		return nil, err
	}
	if bc.cfg.NoCheck {
		p.logger.Info().Msg("Tests skipped by nocheck build option")
		return &TestResult{Skipped: true}, nil
	}
	if bc.cfg.IsCrossCompiling() {
		p.logger.Info().
			Str("hostArch", bc.cfg.HostArch).
			Msg("Tests skipped, cross building")
		return &TestResult{Skipped: true}, nil
	}

	if _, err := p.stage(ctx, bc, false, opts.OverlayRoot); err != nil {
		return nil, err
	}
	list, err := p.resolveTargets(ctx, bc)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		p.logger.Warn().Msg("Nothing to test")
		return &TestResult{}, nil
	}

	if err := bc.gotool.Test(ctx, bc.cfg.Parallel, opts.Flags, list); err != nil {
		return nil, err
	}

	p.logger.Info().Int("targets", len(list)).Msg("Tests passed")
	return &TestResult{Targets: list}, nil
}
