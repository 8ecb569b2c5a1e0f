// Package control reads debian/control, the package metadata file that
// names the source package, its binary packages, and the Go import path
// the source builds under (XS-Go-Import-Path).
package control

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
)

var log = logging.GetLogger("control")

// Path is the control file location relative to the source directory
const Path = "debian/control"

// ImportPathField is the source stanza field naming the Go import path.
// It may hold a comma separated list; the first entry is canonical and
// the rest become install-time aliases.
const ImportPathField = "XS-Go-Import-Path"

// Package is one binary package stanza from debian/control
type Package struct {
	Name         string
	Architecture string
}

// IsArchAll reports whether the package is architecture independent.
// Arch-all packages carry no compiled code, so they get no provenance
// metadata.
func (p Package) IsArchAll() bool {
	return p.Architecture == "all"
}

// File is a parsed debian/control
type File struct {
	SourceName string
	Packages   []Package

	importPaths []string
}

// ImportPath returns the canonical import path from XS-Go-Import-Path
func (f *File) ImportPath() (string, error) {
	if len(f.importPaths) == 0 {
		return "", errors.Newf(errors.ErrImportPathUnset,
			"debian/control is missing the %s field", ImportPathField)
	}
	return f.importPaths[0], nil
}

// ImportPathAliases returns the secondary import paths, which the
// install phase publishes as symlinks to the canonical tree
func (f *File) ImportPathAliases() []string {
	if len(f.importPaths) <= 1 {
		return nil
	}
	return f.importPaths[1:]
}

// BinaryNames returns the binary package names in control file order
func (f *File) BinaryNames() []string {
	names := make([]string, 0, len(f.Packages))
	for _, p := range f.Packages {
		names = append(names, p.Name)
	}
	return names
}

// Load reads and parses debian/control under sourceDir
func Load(fs fsys.FS, sourceDir string) (*File, error) {
	path := filepath.Join(sourceDir, Path)
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrControlNotFound,
				"no control file at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot read control file at %s", path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("source", f.SourceName).
		Int("binaries", len(f.Packages)).
		Msg("Control file loaded")

	return f, nil
}

// Parse parses deb822 control data. The first paragraph is the source
// stanza; every following paragraph with a Package field is a binary
// package. Field names are matched case-insensitively and continuation
// lines are folded into the preceding field.
func Parse(data []byte) (*File, error) {
	paragraphs := splitParagraphs(string(data))
	if len(paragraphs) == 0 {
		return nil, errors.New(errors.ErrControlParse, "control file has no paragraphs")
	}

	src := paragraphs[0]
	f := &File{
		SourceName: src["source"],
	}

	if raw, ok := src[strings.ToLower(ImportPathField)]; ok {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				f.importPaths = append(f.importPaths, p)
			}
		}
	}

	for _, p := range paragraphs[1:] {
		name := p["package"]
		if name == "" {
			continue
		}
		f.Packages = append(f.Packages, Package{
			Name:         name,
			Architecture: p["architecture"],
		})
	}

	return f, nil
}

// splitParagraphs breaks deb822 data into field maps. Keys are
// lowercased. Comment lines are dropped, blank lines separate
// paragraphs, and lines starting with space or tab continue the
// previous field.
func splitParagraphs(data string) []map[string]string {
	var paragraphs []map[string]string
	current := map[string]string{}
	lastField := ""

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, current)
			current = map[string]string{}
		}
		lastField = ""
	}

	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if lastField != "" {
				current[lastField] += "\n" + strings.TrimSpace(line)
			}
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			// Not deb822 syntax, skip the line rather than fail the
			// whole file
			continue
		}
		lastField = strings.ToLower(strings.TrimSpace(field))
		current[lastField] = strings.TrimSpace(value)
	}
	flush()

	return paragraphs
}
