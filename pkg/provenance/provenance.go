// Package provenance computes which Debian source packages provided
// the Go sources compiled into the binaries, the value packaging
// publishes as misc:Built-Using.
package provenance

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/logging"
	"github.com/arthur-debert/gostage/pkg/toolchain"
)

// DepsLister lists the transitive non-standard dependencies of targets
type DepsLister interface {
	Deps(ctx context.Context, targets []string) ([]string, error)
}

// PackageLister loads package metadata for import paths
type PackageLister interface {
	Packages(ctx context.Context, importPaths []string) ([]toolchain.Package, error)
}

// OwnerSearcher maps files to the installed packages owning them
type OwnerSearcher interface {
	SearchOwners(ctx context.Context, files []string) (map[string][]string, error)
}

// SourceResolver maps binary packages to source package references
type SourceResolver interface {
	Sources(ctx context.Context, packages []string) (map[string]string, error)
}

// GoLister is the go tool surface the collector needs
type GoLister interface {
	DepsLister
	PackageLister
}

// PackageResolver is the dpkg surface the collector needs
type PackageResolver interface {
	OwnerSearcher
	SourceResolver
}

// chunkSize keeps subprocess argument lists comfortably under platform
// limits when a build pulls in hundreds of dependencies.
const chunkSize = 200

// repFileCategories is the order in which a package's file lists are
// consulted; the first non-empty category represents the package when
// asking dpkg who owns it.
var repFileCategories = []func(toolchain.Package) []string{
	func(p toolchain.Package) []string { return p.GoFiles },
	func(p toolchain.Package) []string { return p.CgoFiles },
	func(p toolchain.Package) []string { return p.TestGoFiles },
	func(p toolchain.Package) []string { return p.XTestGoFiles },
	func(p toolchain.Package) []string { return p.IgnoredGoFiles },
}

// Options locates the build whose provenance is being collected
type Options struct {
	BuildRoot  string
	ImportPath string
}

// Collector resolves build targets to the source packages their
// dependencies came from.
type Collector struct {
	gotool GoLister
	dpkg   PackageResolver
	logger zerolog.Logger
}

// NewCollector creates a collector over the go tool and dpkg surfaces
func NewCollector(gotool GoLister, dpkg PackageResolver) *Collector {
	return &Collector{
		gotool: gotool,
		dpkg:   dpkg,
		logger: logging.GetLogger("provenance"),
	}
}

// BuiltUsing returns the sorted, duplicate-free source package
// references ("name (= version)") for everything the targets compile
// against. The package's own subtree never counts, whether reached by
// import path or through staged files. An empty result means the build
// uses nothing but the package itself and the standard library.
func (c *Collector) BuiltUsing(ctx context.Context, targets []string, opts Options) ([]string, error) {
	deps, err := c.listDeps(ctx, targets, opts.ImportPath)
	if err != nil {
		return nil, err
	}
	if len(deps) == 0 {
		c.logger.Debug().Msg("No external dependencies, nothing built-using")
		return nil, nil
	}

	files, err := c.representativeFiles(ctx, deps, opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	owners, err := c.fileOwners(ctx, files)
	if err != nil {
		return nil, err
	}
	if len(owners) == 0 {
		return nil, nil
	}

	return c.sourceRefs(ctx, owners)
}

// listDeps collects the transitive dependencies of targets, dropping
// the package's own subtree.
func (c *Collector) listDeps(ctx context.Context, targets []string, importPath string) ([]string, error) {
	var deps []string
	err := inChunks(targets, chunkSize, func(chunk []string) error {
		part, err := c.gotool.Deps(ctx, chunk)
		if err != nil {
			return err
		}
		deps = append(deps, part...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, dep := range uniqueSorted(deps) {
		if dep == importPath || strings.HasPrefix(dep, importPath+"/") {
			continue
		}
		kept = append(kept, dep)
	}
	c.logger.Debug().
		Int("total", len(deps)).
		Int("external", len(kept)).
		Msg("Dependency listing complete")
	return kept, nil
}

// representativeFiles resolves each dependency to the files of its
// first populated category, canonicalized. Files that resolve into the
// staged tree of the package being built are its own and drop out.
func (c *Collector) representativeFiles(ctx context.Context, deps []string, opts Options) ([]string, error) {
	var pkgs []toolchain.Package
	err := inChunks(deps, chunkSize, func(chunk []string) error {
		part, err := c.gotool.Packages(ctx, chunk)
		if err != nil {
			return err
		}
		pkgs = append(pkgs, part...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Canonicalized so the comparison holds when the build dir is
	// reached through symlinks.
	ownBase := filepath.Join(opts.BuildRoot, "src", filepath.FromSlash(opts.ImportPath))
	if resolved, err := canonicalPath(ownBase); err == nil {
		ownBase = resolved
	}
	ownPrefix := ownBase + string(filepath.Separator)
	var files []string
	for _, pkg := range pkgs {
		if pkg.Standard {
			continue
		}
		for _, name := range representative(pkg) {
			canonical, err := canonicalPath(filepath.Join(pkg.Dir, name))
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrPkgOwner,
					"failed to resolve %s", filepath.Join(pkg.Dir, name))
			}
			if strings.HasPrefix(canonical, ownPrefix) {
				continue
			}
			files = append(files, canonical)
		}
	}
	return uniqueSorted(files), nil
}

// fileOwners asks dpkg which packages own the files. Files nothing
// owns (a local GOPATH, say) contribute no provenance and are only
// logged.
func (c *Collector) fileOwners(ctx context.Context, files []string) ([]string, error) {
	owned := make(map[string][]string, len(files))
	err := inChunks(files, chunkSize, func(chunk []string) error {
		part, err := c.dpkg.SearchOwners(ctx, chunk)
		if err != nil {
			return err
		}
		for file, pkgs := range part {
			owned[file] = pkgs
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if unowned := len(files) - len(owned); unowned > 0 {
		c.logger.Warn().
			Int("count", unowned).
			Msg("Dependency files not owned by any package")
	}

	var owners []string
	for _, pkgs := range owned {
		owners = append(owners, pkgs...)
	}
	return uniqueSorted(owners), nil
}

// sourceRefs maps owning binary packages to source references
func (c *Collector) sourceRefs(ctx context.Context, owners []string) ([]string, error) {
	refs := make(map[string]bool)
	err := inChunks(owners, chunkSize, func(chunk []string) error {
		part, err := c.dpkg.Sources(ctx, chunk)
		if err != nil {
			return err
		}
		for _, ref := range part {
			refs[ref] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(refs))
	for ref := range refs {
		out = append(out, ref)
	}
	sort.Strings(out)
	c.logger.Debug().Int("sources", len(out)).Msg("Provenance resolved")
	return out, nil
}

// representative returns the files of the first populated category
func representative(pkg toolchain.Package) []string {
	for _, category := range repFileCategories {
		if files := category(pkg); len(files) > 0 {
			return files
		}
	}
	return nil
}

func canonicalPath(file string) (string, error) {
	resolved, err := filepath.EvalSymlinks(file)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// inChunks calls fn over successive slices of at most size items
func inChunks[T any](items []T, size int, fn func([]T) error) error {
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		if err := fn(items[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
