// Package targets turns configured build patterns into the concrete
// list of import paths handed to the go tool.
package targets

import (
	"context"
	"regexp"
	"sort"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/config"
	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// PatternExpander expands go package patterns into import paths
type PatternExpander interface {
	ExpandPatterns(ctx context.Context, patterns []string) ([]string, error)
}

// Patterns returns the configured build patterns, defaulting to the
// whole tree below the import path.
func Patterns(cfg *config.Config, importPath string) []string {
	if len(cfg.BuildPkg) > 0 {
		return cfg.BuildPkg
	}
	return []string{importPath + "/..."}
}

// ExcludeFilter matches import paths against exclude patterns.
// Matching is unanchored: a pattern matching anywhere in the path
// excludes it, and any single match is enough.
type ExcludeFilter struct {
	patterns []*regexp.Regexp
}

// CompileExcludes compiles the configured exclude patterns
func CompileExcludes(patterns []string) (*ExcludeFilter, error) {
	filter := &ExcludeFilter{}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrExcludeRegex,
				"invalid exclude pattern %q", pattern)
		}
		filter.patterns = append(filter.patterns, re)
	}
	return filter, nil
}

// Match reports whether importPath is excluded
func (f *ExcludeFilter) Match(importPath string) bool {
	for _, re := range f.patterns {
		if re.MatchString(importPath) {
			return true
		}
	}
	return false
}

// Empty reports whether the filter has no patterns
func (f *ExcludeFilter) Empty() bool {
	return len(f.patterns) == 0
}

// Resolver expands patterns through the go tool and applies excludes
type Resolver struct {
	expander PatternExpander
	logger   zerolog.Logger
}

// NewResolver creates a resolver backed by expander
func NewResolver(expander PatternExpander) *Resolver {
	return &Resolver{
		expander: expander,
		logger:   logging.GetLogger("targets"),
	}
}

// Resolve expands patterns into a sorted, duplicate-free target list
// with excluded paths dropped. Patterns matching nothing at all are an
// error; a filter that happens to drop everything is not, the caller
// decides what an empty build means.
func (r *Resolver) Resolve(ctx context.Context, patterns []string, filter *ExcludeFilter) ([]string, error) {
	expanded, err := r.expander.ExpandPatterns(ctx, patterns)
	if err != nil {
		return nil, err
	}
	if len(expanded) == 0 {
		return nil, errors.Newf(errors.ErrTargetPattern,
			"no packages match %v", patterns)
	}

	seen := make(map[string]bool, len(expanded))
	targets := make([]string, 0, len(expanded))
	for _, target := range expanded {
		if seen[target] {
			continue
		}
		seen[target] = true
		if filter != nil && filter.Match(target) {
			r.logger.Debug().Str("target", target).Msg("Excluded from build")
			continue
		}
		targets = append(targets, target)
	}
	sort.Strings(targets)

	if len(targets) == 0 {
		r.logger.Warn().
			Strs("patterns", patterns).
			Msg("Every matched package is excluded")
	}
	return targets, nil
}
