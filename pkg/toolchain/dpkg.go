package toolchain

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// Dpkg wraps the dpkg and dpkg-query tools for ownership and source
// version lookups
type Dpkg struct {
	runner Runner
	logger zerolog.Logger
}

// NewDpkg creates a dpkg wrapper
func NewDpkg(runner Runner) *Dpkg {
	return &Dpkg{
		runner: runner,
		logger: logging.GetLogger("toolchain.dpkg"),
	}
}

// SearchOwners maps each file path to the binary packages shipping it,
// via dpkg --search. Files nothing owns are simply absent from the
// result; dpkg exits nonzero for those but still reports the matches,
// so a nonzero exit with usable output is not a failure.
func (d *Dpkg) SearchOwners(ctx context.Context, files []string) (map[string][]string, error) {
	if len(files) == 0 {
		return map[string][]string{}, nil
	}

	args := append([]string{"--search", "--"}, files...)
	out, err := d.runner.Output(ctx, Command{Name: "dpkg", Args: args})
	if err != nil && strings.TrimSpace(out) == "" {
		return nil, errors.Wrap(err, errors.ErrPkgOwner, "dpkg --search failed")
	}

	owners := make(map[string][]string)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Diversion records describe renames, not ownership
		if strings.HasPrefix(line, "diversion by ") || strings.HasPrefix(line, "local diversion") {
			continue
		}

		pkgs, path, ok := strings.Cut(line, ": ")
		if !ok {
			d.logger.Warn().Str("line", line).Msg("Unparseable dpkg --search line")
			continue
		}
		for _, pkg := range strings.Split(pkgs, ",") {
			if pkg = strings.TrimSpace(pkg); pkg != "" {
				owners[path] = append(owners[path], pkg)
			}
		}
	}

	d.logger.Debug().
		Int("files", len(files)).
		Int("owned", len(owners)).
		Msg("Resolved file owners")

	return owners, nil
}

// dpkg-query output format: one "binary<TAB>source (= version)" line
// per installed package
const sourcesFormat = "${binary:Package}\t${source:Package} (= ${source:Version})\n"

// Sources maps binary package names to their "source (= version)"
// strings via dpkg-query
func (d *Dpkg) Sources(ctx context.Context, packages []string) (map[string]string, error) {
	if len(packages) == 0 {
		return map[string]string{}, nil
	}

	args := append([]string{"-f", sourcesFormat, "-W", "--"}, packages...)
	out, err := d.runner.Output(ctx, Command{Name: "dpkg-query", Args: args})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPkgSource, "dpkg-query failed")
	}

	sources := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		binary, source, ok := strings.Cut(line, "\t")
		if !ok {
			d.logger.Warn().Str("line", line).Msg("Unparseable dpkg-query line")
			continue
		}
		sources[binary] = source
	}

	return sources, nil
}
