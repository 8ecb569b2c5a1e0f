package gostage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/gostage/internal/version"
	"github.com/arthur-debert/gostage/pkg/cobrax/topics"
	"github.com/arthur-debert/gostage/pkg/fsys"
	"github.com/arthur-debert/gostage/pkg/logging"
	"github.com/arthur-debert/gostage/pkg/phases"
	"github.com/arthur-debert/gostage/pkg/style"
	"github.com/arthur-debert/gostage/pkg/toolchain"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity int
		dryRun    bool
		sourceDir string
		gocode    string
		format    string
		buildDir  string
		parallel  int
	)

	rootCmd := &cobra.Command{
		Use:     "gostage",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but fail, a phase was expected
			_ = cmd.Help()
			return fmt.Errorf("no phase specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVarP(&sourceDir, "directory", "C", ".", MsgFlagDirectory)
	rootCmd.PersistentFlags().StringVar(&gocode, "gocode", "", MsgFlagGocode)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&buildDir, "builddir", "", MsgFlagBuildDir)
	rootCmd.PersistentFlags().IntVar(&parallel, "parallel", 0, MsgFlagParallel)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "phase",
		Title: "BUILD PHASES:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newConfigureCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newSubstvarsCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newEnvCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help system
	// Try to find help topics relative to the executable location
	exe, err := os.Executable()
	if err == nil {
		// Look for help topics in various locations
		possiblePaths := []string{
			filepath.Join(filepath.Dir(exe), "topics"),                               // Same directory as binary (production)
			filepath.Join(filepath.Dir(exe), "..", "..", "cmd", "gostage", "topics"), // Development
			"cmd/gostage/topics", // Current directory fallback
		}

		for _, helpPath := range possiblePaths {
			if _, err := os.Stat(helpPath); err == nil {
				// Initialize topics with .txt and .md extensions
				opts := topics.Options{
					Extensions: []string{".txt", ".md"},
					// Always use Glamour renderer for markdown files
					Renderer: topics.NewGlamourRenderer(),
				}

				if err := topics.InitializeWithOptions(rootCmd, helpPath, opts); err == nil {
					break
				}
			}
		}
	}

	return rootCmd
}

// newPhases wires the lifecycle against the real filesystem and tool runner
func newPhases() *phases.Phases {
	return phases.New(fsys.NewOS(), toolchain.NewRunner())
}

// phaseOptions collects the persistent flags into phase options
func phaseOptions(cmd *cobra.Command) phases.Options {
	flags := cmd.Root().PersistentFlags()
	dir, _ := flags.GetString("directory")
	dryRun, _ := flags.GetBool("dry-run")
	gocode, _ := flags.GetString("gocode")
	buildDir, _ := flags.GetString("builddir")
	parallel, _ := flags.GetInt("parallel")
	verbosity, _ := flags.GetCount("verbose")

	return phases.Options{
		SourceDir:   dir,
		DryRun:      dryRun,
		Verbose:     verbosity > 0,
		OverlayRoot: gocode,
		BuildDir:    buildDir,
		Parallel:    parallel,
	}
}

// newRenderer resolves the output format flag. Auto picks rich output
// on a terminal and plain text everywhere else; build logs are the
// common habitat, so plain is the usual outcome.
func newRenderer(cmd *cobra.Command) (style.Renderer, error) {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := style.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return style.NewRenderer(format, os.Stdout)
}

// dryRunNotice prints the dry run banner unless the output is meant
// for machine consumption
func dryRunNotice(renderer style.Renderer) {
	if _, isJSON := renderer.(*style.JSONRenderer); isJSON {
		return
	}
	fmt.Println(style.Render(MsgDryRunNotice))
}

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "configure",
		Short:   MsgConfigureShort,
		Long:    MsgConfigureLong,
		Example: MsgConfigureExample,
		GroupID: "phase",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := phaseOptions(cmd)
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("directory", opts.SourceDir).
				Bool("dry_run", opts.DryRun).
				Msg("Configuring build workspace")

			res, err := newPhases().Configure(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf(MsgErrConfigure, err)
			}

			if opts.DryRun {
				dryRunNotice(renderer)
			}
			fmt.Println(renderer.RenderConfigure(res))

			return nil
		},
	}
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "build [-- goflags...]",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		GroupID: "phase",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := phaseOptions(cmd)
			opts.Flags = args
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("directory", opts.SourceDir).
				Strs("flags", opts.Flags).
				Msg("Building targets")

			res, err := newPhases().Build(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf(MsgErrBuild, err)
			}

			fmt.Println(renderer.RenderBuild(res))

			return nil
		},
	}
}

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "test [-- goflags...]",
		Short:   MsgTestShort,
		Long:    MsgTestLong,
		GroupID: "phase",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := phaseOptions(cmd)
			opts.Flags = args
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("directory", opts.SourceDir).Msg("Testing targets")

			res, err := newPhases().Test(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf(MsgErrTest, err)
			}

			fmt.Println(renderer.RenderTest(res))

			return nil
		},
	}
}

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "phase",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := phaseOptions(cmd)
			opts.DestDir, _ = cmd.Flags().GetString("destdir")
			opts.NoBinaries, _ = cmd.Flags().GetBool("no-binaries")
			opts.NoSource, _ = cmd.Flags().GetBool("no-source")
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("directory", opts.SourceDir).
				Str("destdir", opts.DestDir).
				Msg("Installing build artifacts")

			res, err := newPhases().Install(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf(MsgErrInstall, err)
			}

			fmt.Println(renderer.RenderInstall(res))

			return nil
		},
	}

	cmd.Flags().String("destdir", "", MsgFlagDestDir)
	cmd.Flags().Bool("no-binaries", false, MsgFlagNoBinaries)
	cmd.Flags().Bool("no-source", false, MsgFlagNoSource)

	return cmd
}

func newSubstvarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "substvars",
		Short:   MsgSubstvarsShort,
		Long:    MsgSubstvarsLong,
		Example: MsgSubstvarsExample,
		GroupID: "phase",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := phaseOptions(cmd)
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("directory", opts.SourceDir).Msg("Recording Built-Using provenance")

			res, err := newPhases().Substvars(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf(MsgErrSubstvars, err)
			}

			fmt.Println(renderer.RenderSubstvars(res))

			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "phase",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := phaseOptions(cmd)
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("directory", opts.SourceDir).
				Bool("dry_run", opts.DryRun).
				Msg("Cleaning build workspace")

			res, err := newPhases().Clean(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf(MsgErrClean, err)
			}

			if opts.DryRun {
				dryRunNotice(renderer)
			}
			fmt.Println(renderer.RenderClean(res))

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gostage version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
