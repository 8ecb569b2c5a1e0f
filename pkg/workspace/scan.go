package workspace

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/classify"
	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// Scanner walks a package source tree and collects the files that
// belong in the staged workspace. Pruning happens only at the top
// level: debian/, version control metadata and the build directory
// itself never contribute sources, but a vendored tree may legally
// contain directories with those names deeper down.
type Scanner struct {
	fs         fsys.FS
	classifier *classify.Classifier
	logger     zerolog.Logger
}

func NewScanner(fs fsys.FS, classifier *classify.Classifier) *Scanner {
	return &Scanner{
		fs:         fs,
		classifier: classifier,
		logger:     logging.GetLogger("workspace.scan"),
	}
}

// Scan returns the staging entries for sourceDir in deterministic
// (lexicographic, depth-first) order. buildRoot is pruned when it
// lives inside the source tree.
func (s *Scanner) Scan(sourceDir, buildRoot string) ([]Entry, error) {
	prune := map[string]bool{
		"debian": true,
		".git":   true,
		".pc":    true,
	}
	if rel, err := filepath.Rel(sourceDir, buildRoot); err == nil &&
		rel != "." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != ".." {
		prune[filepath.ToSlash(rel)] = true
	}

	var entries []Entry
	if err := s.walk(sourceDir, "", prune, &entries); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("sourceDir", sourceDir).
		Int("entries", len(entries)).
		Msg("Source scan complete")
	return entries, nil
}

func (s *Scanner) walk(root, rel string, prune map[string]bool, out *[]Entry) error {
	dir := filepath.Join(root, filepath.FromSlash(rel))
	dirents, err := s.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStageScan, "failed to read directory %s", dir)
	}
	for _, de := range dirents {
		childRel := path.Join(rel, de.Name())
		if prune[childRel] {
			s.logger.Trace().Str("path", childRel).Msg("Pruned from scan")
			continue
		}
		switch {
		case de.Type()&fs.ModeSymlink != 0:
			keep, reason := s.classifier.Keep(childRel)
			if !keep {
				continue
			}
			target, err := s.fs.Readlink(filepath.Join(root, filepath.FromSlash(childRel)))
			if err != nil {
				return errors.Wrapf(err, errors.ErrStageScan, "failed to read symlink %s", childRel)
			}
			*out = append(*out, Entry{Rel: childRel, IsLink: true, LinkTarget: target, Reason: reason})
		case de.IsDir():
			if err := s.walk(root, childRel, prune, out); err != nil {
				return err
			}
		case de.Type().IsRegular():
			keep, reason := s.classifier.Keep(childRel)
			if !keep {
				continue
			}
			info, err := de.Info()
			if err != nil {
				return errors.Wrapf(err, errors.ErrStageScan, "failed to stat %s", childRel)
			}
			*out = append(*out, Entry{
				Rel:    childRel,
				Exec:   info.Mode()&0111 != 0,
				Reason: reason,
			})
		default:
			// Sockets, devices and other oddities never stage.
			s.logger.Trace().Str("path", childRel).Msg("Ignoring special file")
		}
	}
	return nil
}
