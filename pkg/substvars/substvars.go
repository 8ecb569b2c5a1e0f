// Package substvars maintains debian/<package>.substvars files, the
// channel through which computed values like misc:Built-Using reach
// the control file at packaging time.
package substvars

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gostage/pkg/control"
	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// BuiltUsingVar names the provenance substitution variable
const BuiltUsingVar = "misc:Built-Using"

// Path returns the substvars file for a binary package
func Path(sourceDir, pkg string) string {
	return filepath.Join(sourceDir, "debian", pkg+".substvars")
}

// BuiltUsingValue joins source references in control-field form
func BuiltUsingValue(refs []string) string {
	return strings.Join(refs, ", ")
}

// Set writes name=value into the substvars file at path, replacing an
// existing assignment and preserving every other line. An empty value
// removes the assignment. The file is created when missing.
func Set(fs fsys.FS, path, name, value string) error {
	var lines []string
	data, err := fs.ReadFile(path)
	switch {
	case err == nil:
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) == 1 && lines[0] == "" {
			lines = nil
		}
	case os.IsNotExist(err):
		// First write creates the file.
	default:
		return errors.Wrapf(err, errors.ErrSubstvarsIO, "failed to read %s", path)
	}

	kept := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		// Both assignment forms dpkg-gencontrol accepts.
		if strings.HasPrefix(line, name+"=") || strings.HasPrefix(line, name+"?=") {
			continue
		}
		kept = append(kept, line)
	}
	if value != "" {
		kept = append(kept, name+"="+value)
	}

	var out string
	if len(kept) > 0 {
		out = strings.Join(kept, "\n") + "\n"
	}
	if err := fs.WriteFile(path, []byte(out), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSubstvarsIO, "failed to write %s", path)
	}
	return nil
}

// Apply records the Built-Using provenance for every binary package
// that ships compiled code. Architecture-independent packages carry
// none, so a stale assignment there is removed rather than updated.
func Apply(fs fsys.FS, sourceDir string, packages []control.Package, refs []string) error {
	log := logging.GetLogger("substvars")
	value := BuiltUsingValue(refs)
	for _, pkg := range packages {
		v := value
		if pkg.IsArchAll() {
			v = ""
		}
		if err := Set(fs, Path(sourceDir, pkg.Name), BuiltUsingVar, v); err != nil {
			return err
		}
		log.Debug().
			Str("package", pkg.Name).
			Bool("archAll", pkg.IsArchAll()).
			Msg("Substvars updated")
	}
	return nil
}
