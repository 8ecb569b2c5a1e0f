// Package workspace materializes the hermetic build tree: scanning the
// package source for files worth staging, planning the copies and
// symlinks into BuildRoot/src/<ImportPath>, executing the plan, and
// overlaying the system Go source tree for dependencies.
package workspace

import (
	"io/fs"

	"github.com/arthur-debert/gostage/pkg/classify"
)

// Entry is one source file chosen for staging
type Entry struct {
	// Rel is the slash separated path relative to the source root
	Rel string
	// IsLink marks symlinks, which are recreated rather than followed
	IsLink bool
	// LinkTarget is the literal symlink target, kept verbatim
	LinkTarget string
	// Exec marks files whose executable bit must be re-asserted after
	// copying
	Exec   bool
	Reason classify.Reason
}

// OpKind describes a single materialization step
type OpKind string

const (
	OpMkdir     OpKind = "mkdir"
	OpCopy      OpKind = "copy"
	OpSymlink   OpKind = "symlink"
	OpChmodExec OpKind = "chmod-exec"
)

// Op is one step of a staging plan. IDs are deterministic so repeated
// plans over the same tree produce identical operations.
type Op struct {
	ID   string
	Kind OpKind
	// Src is the copy source or the symlink target
	Src string
	// Dst is the absolute destination path
	Dst  string
	Mode fs.FileMode
}

// Plan is the outcome of planning a staging run. Ops holds the work to
// do; Skipped holds the file operations whose destination already
// existed, so a re-run over a staged tree plans no work.
type Plan struct {
	Ops     []Op
	Skipped []Op
}

// DirMode is the permission bits for directories the planner creates
const DirMode fs.FileMode = 0755
