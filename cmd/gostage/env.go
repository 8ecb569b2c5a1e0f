package gostage

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/gostage/pkg/config"
	"github.com/arthur-debert/gostage/pkg/control"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/targets"
	"github.com/arthur-debert/gostage/pkg/toolchain"
)

// envReport is the resolved build environment, dumped as YAML. Keys
// follow the debian/gostage.toml spelling.
type envReport struct {
	SourcePackage string   `yaml:"source_package,omitempty"`
	ImportPath    string   `yaml:"import_path"`
	Aliases       []string `yaml:"import_path_aliases,omitempty"`
	BuildRoot     string   `yaml:"build_root"`
	Targets       []string `yaml:"targets"`
	InstallAll    bool     `yaml:"install_all"`
	InstallExtra  []string `yaml:"install_extra,omitempty"`
	Excludes      []string `yaml:"excludes,omitempty"`
	ExcludesAll   bool     `yaml:"excludes_all"`
	GoGenerate    bool     `yaml:"go_generate"`
	Parallel      int      `yaml:"parallel,omitempty"`
	NoCheck       bool     `yaml:"nocheck"`

	Cross *crossReport `yaml:"cross,omitempty"`
}

// crossReport is present only when host and build architectures differ
type crossReport struct {
	HostGnuType  string `yaml:"host_gnu_type"`
	BuildGnuType string `yaml:"build_gnu_type"`
	GoOS         string `yaml:"goos"`
	GoArch       string `yaml:"goarch"`
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "env",
		Short:   MsgEnvShort,
		Long:    MsgEnvLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Root().PersistentFlags()
			dir, _ := flags.GetString("directory")

			cfg, err := config.Load(dir)
			if err != nil {
				return fmt.Errorf(MsgErrEnv, err)
			}
			if buildDir, _ := flags.GetString("builddir"); buildDir != "" {
				cfg.BuildDir = buildDir
			}
			if parallel, _ := flags.GetInt("parallel"); parallel > 0 {
				cfg.Parallel = parallel
			}

			report := envReport{
				BuildRoot:    cfg.BuildRoot(dir),
				InstallAll:   cfg.InstallAll,
				InstallExtra: cfg.InstallExtra,
				Excludes:     cfg.Excludes,
				ExcludesAll:  cfg.ExcludesAll,
				GoGenerate:   cfg.GoGenerate,
				Parallel:     cfg.Parallel,
				NoCheck:      cfg.NoCheck,
			}

			// The control file may not exist yet; report what resolves
			// without it rather than failing a diagnostic command.
			controlImportPath := ""
			if ctl, err := control.Load(fsys.NewOS(), dir); err == nil {
				controlImportPath, _ = ctl.ImportPath()
				report.SourcePackage = ctl.SourceName
				report.Aliases = ctl.ImportPathAliases()
			}
			report.ImportPath = cfg.EffectiveImportPath(controlImportPath)
			report.Targets = targets.Patterns(cfg, report.ImportPath)

			if cfg.IsCrossCompiling() {
				report.Cross = &crossReport{
					HostGnuType:  cfg.HostGnuType,
					BuildGnuType: cfg.BuildGnuType,
					GoOS:         toolchain.GoOS(cfg.HostArchOS),
					GoArch:       toolchain.GoArch(cfg.HostArchCPU),
				}
			}

			out, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf(MsgErrEnv, err)
			}
			fmt.Print(string(out))

			return nil
		},
	}
}
