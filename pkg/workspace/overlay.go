package workspace

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// DefaultOverlayRoot is where Debian library packages install Go sources
const DefaultOverlayRoot = "/usr/share/gocode/src"

// OverlayAction describes one decision taken while merging the system
// source tree into the workspace
type OverlayAction string

const (
	// OverlayLinked means the system subtree became a single symlink
	OverlayLinked OverlayAction = "linked"
	// OverlayRecursed means both sides have the directory and the merge descended
	OverlayRecursed OverlayAction = "recursed"
	// OverlaySkippedExisting means the workspace already holds a
	// non-directory at that path, which wins
	OverlaySkippedExisting OverlayAction = "skipped-existing"
	// OverlayLeafStop means the system directory holds Go sources itself,
	// so the workspace copy of that package wins and nothing below it links
	OverlayLeafStop OverlayAction = "leaf-stop"
	// OverlaySkippedSelf is a leaf stop at the import path being built:
	// an installed copy of the package itself
	OverlaySkippedSelf OverlayAction = "skipped-self"
)

// OverlayResult records one merge decision
type OverlayResult struct {
	Rel    string        `json:"rel"`
	Action OverlayAction `json:"action"`
}

// Overlay merges the system Go source tree into the workspace src
// directory. Whole dependency subtrees become single symlinks; where
// the workspace already has a directory the merge descends one level
// instead. Nothing already in the workspace is ever replaced.
type Overlay struct {
	fs     fsys.FS
	root   string
	logger zerolog.Logger
}

// NewOverlay creates an overlay reading from root, or from
// DefaultOverlayRoot when root is empty.
func NewOverlay(fs fsys.FS, root string) *Overlay {
	if root == "" {
		root = DefaultOverlayRoot
	}
	return &Overlay{
		fs:     fs,
		root:   root,
		logger: logging.GetLogger("workspace.overlay"),
	}
}

type overlayFrame struct {
	src string // absolute directory under the overlay root
	rel string // slash path relative to the overlay root
}

// Link merges the overlay root into srcDir, the workspace src
// directory. importPath names the package being built, so a system
// copy of that same package is reported rather than merged. A missing
// overlay root means no library packages are installed and is not an
// error. Results come back in lexicographic depth-first order.
func (o *Overlay) Link(srcDir, importPath string) ([]OverlayResult, error) {
	if _, err := o.fs.Stat(o.root); err != nil {
		if os.IsNotExist(err) {
			o.logger.Debug().Str("root", o.root).Msg("No system Go sources to overlay")
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrOverlayLink, "failed to inspect %s", o.root)
	}

	var results []OverlayResult
	stack := []overlayFrame{{src: o.root}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dirents, err := o.fs.ReadDir(frame.src)
		if err != nil {
			return results, errors.Wrapf(err, errors.ErrOverlayLink, "failed to read %s", frame.src)
		}

		// A directory with Go files of its own is a package the
		// workspace already staged, or it would not have been entered.
		if hasGoFiles(dirents) {
			action := OverlayLeafStop
			if frame.rel == importPath {
				action = OverlaySkippedSelf
				o.logger.Warn().
					Str("importPath", importPath).
					Msg("System tree carries the package being built; workspace copy wins")
			}
			results = append(results, OverlayResult{Rel: frame.rel, Action: action})
			continue
		}

		var pending []overlayFrame
		for _, de := range dirents {
			if !de.IsDir() {
				continue
			}
			childRel := path.Join(frame.rel, de.Name())
			childSrc := filepath.Join(frame.src, de.Name())
			childDst := filepath.Join(srcDir, filepath.FromSlash(childRel))

			info, err := o.fs.Lstat(childDst)
			switch {
			case os.IsNotExist(err):
				if err := o.fs.Symlink(childSrc, childDst); err != nil {
					return results, errors.Wrapf(err, errors.ErrOverlayLink,
						"failed to link %s", childRel)
				}
				o.logger.Trace().Str("path", childRel).Msg("Linked system subtree")
				results = append(results, OverlayResult{Rel: childRel, Action: OverlayLinked})
			case err != nil:
				return results, errors.Wrapf(err, errors.ErrOverlayLink,
					"failed to inspect %s", childDst)
			case info.IsDir():
				pending = append(pending, overlayFrame{src: childSrc, rel: childRel})
				results = append(results, OverlayResult{Rel: childRel, Action: OverlayRecursed})
			default:
				results = append(results, OverlayResult{Rel: childRel, Action: OverlaySkippedExisting})
			}
		}
		// Reversed push keeps the pop order lexicographic.
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}

	o.logger.Debug().
		Str("root", o.root).
		Int("decisions", len(results)).
		Msg("System source overlay complete")
	return results, nil
}

func hasGoFiles(dirents []fs.DirEntry) bool {
	for _, de := range dirents {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".go") {
			return true
		}
	}
	return false
}
