package phases

import (
	"context"
	"os"

	"github.com/arthur-debert/gostage/pkg/config"
	"github.com/arthur-debert/gostage/pkg/errors"
)

// CleanResult reports what the clean phase removed
type CleanResult struct {
	Removed string `json:"removed"`
}

// Clean removes the build workspace. It needs only the configuration,
// not the control file, so a half-set-up tree still cleans.
func (p *Phases) Clean(ctx context.Context, opts Options) (*CleanResult, error) {
	sourceDir := opts.sourceDir()
	cfg, err := config.Load(sourceDir)
	if err != nil {
		return nil, err
	}

	buildRoot := cfg.BuildRoot(sourceDir)
	if _, err := p.fs.Lstat(buildRoot); err != nil {
		if os.IsNotExist(err) {
			p.logger.Debug().Str("buildRoot", buildRoot).Msg("Nothing to clean")
			return &CleanResult{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", buildRoot)
	}

	if opts.DryRun {
		p.logger.Info().Str("buildRoot", buildRoot).Msg("Dry run, would remove build workspace")
		return &CleanResult{Removed: buildRoot}, nil
	}
	if err := p.fs.RemoveAll(buildRoot); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", buildRoot)
	}

	p.logger.Info().Str("buildRoot", buildRoot).Msg("Build workspace removed")
	return &CleanResult{Removed: buildRoot}, nil
}
