// Package config resolves the per-build configuration from its three
// layers: built-in defaults, debian/gostage.toml, and the DH_* / DEB_*
// environment variables the packaging toolchain sets. Later layers win.
// The resolved Config is immutable and passed explicitly to every
// component, so nothing downstream reads the environment on its own.
package config

import (
	"path/filepath"
)

// Environment variables honored by Load. DH_GOLANG_* names are kept for
// compatibility with existing packaging; debian/gostage.toml keys are
// the canonical spelling.
const (
	EnvImportPath   = "DH_GOPKG"
	EnvInstallExtra = "DH_GOLANG_INSTALL_EXTRA"
	EnvInstallAll   = "DH_GOLANG_INSTALL_ALL"
	EnvBuildPkg     = "DH_GOLANG_BUILDPKG"
	EnvExcludes     = "DH_GOLANG_EXCLUDES"
	EnvExcludesAll  = "DH_GOLANG_EXCLUDES_ALL"
	EnvGoGenerate   = "DH_GOLANG_GO_GENERATE"
	EnvBuildDir     = "DEB_BUILDDIR"
	EnvBuildOptions = "DEB_BUILD_OPTIONS"
	EnvDestDir      = "DESTDIR"

	EnvHostGnuType  = "DEB_HOST_GNU_TYPE"
	EnvBuildGnuType = "DEB_BUILD_GNU_TYPE"
	EnvHostArch     = "DEB_HOST_ARCH"
	EnvHostArchOS   = "DEB_HOST_ARCH_OS"
	EnvHostArchCPU  = "DEB_HOST_ARCH_CPU"
)

// DefaultBuildDir is where the build workspace goes when DEB_BUILDDIR
// is unset. Relative to the package source directory.
const DefaultBuildDir = "_build"

// Config is the fully resolved build configuration
type Config struct {
	// ImportPath overrides the import path from debian/control.
	// Empty means derive it from XS-Go-Import-Path.
	ImportPath string `koanf:"import_path"`

	// InstallExtra lists files to stage even though the classifier
	// would reject them. Paths are relative to the source directory.
	InstallExtra []string `koanf:"install_extra"`

	// InstallAll stages every file under the source directory
	// regardless of extension
	InstallAll bool `koanf:"install_all"`

	// BuildPkg replaces the default <ImportPath>/... build target list
	BuildPkg []string `koanf:"buildpkg"`

	// Excludes holds regular expressions; any target or staged source
	// path matching one of them is dropped
	Excludes []string `koanf:"excludes"`

	// ExcludesAll extends Excludes to the install phase, so excluded
	// packages are neither shipped as source nor as binaries
	ExcludesAll bool `koanf:"excludes_all"`

	// GoGenerate runs "go generate" over the build targets before
	// compiling
	GoGenerate bool `koanf:"go_generate"`

	// BuildDir is the workspace directory, relative to the source
	// directory unless absolute
	BuildDir string `koanf:"builddir"`

	// DestDir is the install root, as debhelper passes it. Empty means
	// debian/tmp under the source directory.
	DestDir string `koanf:"destdir"`

	// Cross-compilation inputs from dpkg-architecture
	HostGnuType  string `koanf:"host_gnu_type"`
	BuildGnuType string `koanf:"build_gnu_type"`
	HostArch     string `koanf:"host_arch"`
	HostArchOS   string `koanf:"host_arch_os"`
	HostArchCPU  string `koanf:"host_arch_cpu"`

	// Parallel and NoCheck come from DEB_BUILD_OPTIONS
	Parallel int  `koanf:"parallel"`
	NoCheck  bool `koanf:"nocheck"`
}

// EffectiveImportPath returns the import path to build under:
// the configured override when set, the control file value otherwise.
func (c *Config) EffectiveImportPath(controlImportPath string) string {
	if c.ImportPath != "" {
		return c.ImportPath
	}
	return controlImportPath
}

// IsCrossCompiling reports whether the host and build architectures
// differ, in which case the toolchain env gets GOOS/GOARCH set.
func (c *Config) IsCrossCompiling() bool {
	return c.HostGnuType != "" && c.BuildGnuType != "" && c.HostGnuType != c.BuildGnuType
}

// BuildRoot returns the absolute workspace directory for a build rooted
// at sourceDir
func (c *Config) BuildRoot(sourceDir string) string {
	dir := c.BuildDir
	if dir == "" {
		dir = DefaultBuildDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(sourceDir, dir)
}

func systemDefaults() map[string]interface{} {
	return map[string]interface{}{
		"builddir":     DefaultBuildDir,
		"excludes_all": true,
	}
}
