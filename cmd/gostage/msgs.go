package gostage

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Debian build helper for Go packages"
	MsgConfigureShort  = "Stage the package sources into a hermetic workspace"
	MsgBuildShort      = "Compile the package targets inside the workspace"
	MsgTestShort       = "Run go test over the build targets"
	MsgTestLong        = "Test runs 'go test -vet=off' over the resolved build targets. The nocheck build option and cross builds skip the run."
	MsgInstallShort    = "Lay built binaries and staged sources into the install root"
	MsgSubstvarsShort  = "Record misc:Built-Using provenance for each binary package"
	MsgCleanShort      = "Remove the build workspace"
	MsgCleanLong       = "Clean removes the build workspace directory. The package source tree itself is never touched."
	MsgEnvShort        = "Print the resolved build environment"
	MsgEnvLong         = "Env resolves the configuration layers (defaults, debian/gostage.toml, DH_* and DEB_* variables) and prints the outcome as YAML. Useful for debugging a debian/rules file."
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice = "\n[warning]DRY RUN MODE[/warning] - no changes were made"

	// Error messages
	MsgErrConfigure = "configure phase failed: %w"
	MsgErrBuild     = "build phase failed: %w"
	MsgErrTest      = "test phase failed: %w"
	MsgErrInstall   = "install phase failed: %w"
	MsgErrSubstvars = "substvars phase failed: %w"
	MsgErrClean     = "clean phase failed: %w"
	MsgErrEnv       = "failed to resolve build environment: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview staging and clean work without touching the tree"
	MsgFlagDirectory  = "Package source directory to operate on"
	MsgFlagGocode     = "Directory holding system Go sources (default /usr/share/gocode/src)"
	MsgFlagBuildDir   = "Build workspace directory (default _build, DEB_BUILDDIR)"
	MsgFlagParallel   = "Cap go tool parallelism (default from DEB_BUILD_OPTIONS parallel=N)"
	MsgFlagFormat     = "Output format: auto, term, text or json"
	MsgFlagDestDir    = "Install root (default debian/tmp under the source directory)"
	MsgFlagNoBinaries = "Install staged sources only, skip compiled binaries"
	MsgFlagNoSource   = "Install compiled binaries only, skip staged sources"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/configure-long.txt
	msgConfigureLongRaw string
	MsgConfigureLong    = strings.TrimSpace(msgConfigureLongRaw)

	//go:embed msgs/configure-example.txt
	msgConfigureExampleRaw string
	MsgConfigureExample    = strings.TrimSpace(msgConfigureExampleRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimSpace(msgBuildExampleRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimSpace(msgInstallExampleRaw)

	//go:embed msgs/substvars-long.txt
	msgSubstvarsLongRaw string
	MsgSubstvarsLong    = strings.TrimSpace(msgSubstvarsLongRaw)

	//go:embed msgs/substvars-example.txt
	msgSubstvarsExampleRaw string
	MsgSubstvarsExample    = strings.TrimSpace(msgSubstvarsExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
