package workspace

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// PlanRequest names the tree being staged.
type PlanRequest struct {
	Entries    []Entry
	SourceDir  string
	BuildRoot  string
	ImportPath string
}

// BuildPlan decides, without touching the filesystem, which operations
// materialize the staged tree under BuildRoot/src/ImportPath. Parent
// directories come first, shallowest first. Destinations that already
// exist are never rewritten: planning the same tree twice yields an
// empty op list with everything in Skipped.
func BuildPlan(fs fsys.FS, req PlanRequest) (*Plan, error) {
	destBase := filepath.Join(req.BuildRoot, "src", filepath.FromSlash(req.ImportPath))
	return BuildPlanInto(fs, req.Entries, req.SourceDir, destBase)
}

// BuildPlanInto plans materializing entries from sourceDir into
// destBase. The install phase reuses this to lay the staged tree out
// under the package install root.
func BuildPlanInto(fs fsys.FS, entries []Entry, sourceDir, destBase string) (*Plan, error) {
	log := logging.GetLogger("workspace.plan")

	dirs := map[string]bool{}
	addDirChain(dirs, destBase)
	for _, entry := range entries {
		if dir := path.Dir(entry.Rel); dir != "." {
			addDirChain(dirs, filepath.Join(destBase, filepath.FromSlash(dir)))
		}
	}

	missing := make([]string, 0, len(dirs))
	for dir := range dirs {
		info, err := fs.Lstat(dir)
		switch {
		case err == nil && info.IsDir():
			// Already in place, nothing to plan.
		case err == nil:
			return nil, errors.Newf(errors.ErrStagePlan, "%s exists and is not a directory", dir)
		case os.IsNotExist(err):
			missing = append(missing, dir)
		default:
			return nil, errors.Wrapf(err, errors.ErrStagePlan, "failed to inspect %s", dir)
		}
	}
	sort.Strings(missing)

	plan := &Plan{}
	for _, dir := range missing {
		plan.Ops = append(plan.Ops, Op{
			ID:   opID(OpMkdir, dir),
			Kind: OpMkdir,
			Dst:  dir,
			Mode: DirMode,
		})
	}

	// Copies before symlinks, so relative link targets inside the
	// staged tree already exist when the link lands. Copying does not
	// keep permission bits, so executables get their bit re-asserted.
	var chmods, links []Op
	for _, entry := range entries {
		op := Op{
			Kind: OpCopy,
			Src:  filepath.Join(sourceDir, filepath.FromSlash(entry.Rel)),
			Dst:  filepath.Join(destBase, filepath.FromSlash(entry.Rel)),
		}
		if entry.IsLink {
			op.Kind = OpSymlink
			op.Src = entry.LinkTarget
		}
		op.ID = opID(op.Kind, op.Dst)
		if _, err := fs.Lstat(op.Dst); err == nil {
			plan.Skipped = append(plan.Skipped, op)
			continue
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrStagePlan, "failed to inspect %s", op.Dst)
		}
		switch {
		case op.Kind == OpSymlink:
			links = append(links, op)
		default:
			plan.Ops = append(plan.Ops, op)
			if entry.Exec {
				chmods = append(chmods, Op{
					ID:   opID(OpChmodExec, op.Dst),
					Kind: OpChmodExec,
					Dst:  op.Dst,
				})
			}
		}
	}
	plan.Ops = append(plan.Ops, chmods...)
	plan.Ops = append(plan.Ops, links...)

	log.Debug().
		Str("destBase", destBase).
		Int("ops", len(plan.Ops)).
		Int("skipped", len(plan.Skipped)).
		Msg("Staging plan built")
	return plan, nil
}

// addDirChain records dir and every ancestor above it. Existing
// ancestors are filtered out later, so walking all the way up is
// harmless and keeps nested build directories working.
func addDirChain(set map[string]bool, dir string) {
	for dir != "/" && dir != "." && !set[dir] {
		set[dir] = true
		dir = filepath.Dir(dir)
	}
}

func opID(kind OpKind, target string) string {
	return string(kind) + "_" + filepath.ToSlash(target)
}
