// Package topics extends Cobra's help system with free-form help topics
// loaded from a directory tree. Each file becomes addressable as
// "<app> help <name>", alongside the regular per-command help.
package topics

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// optionPrefix marks topic files that document a flag rather than a
// concept. "option-dry-run.txt" answers both "help dry-run" and
// "help --dry-run".
const optionPrefix = "option-"

// Topic is a single help text loaded from disk.
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures topic discovery and rendering.
type Options struct {
	// Extensions lists the file extensions treated as topic files.
	// Defaults to ".txt" and ".md".
	Extensions []string

	// Renderer formats topic content for display.
	// Defaults to PlainRenderer.
	Renderer Renderer
}

// TopicManager holds the discovered topics and the help hooks for one
// root command.
type TopicManager struct {
	topicsDir    string
	topics       map[string]*Topic
	extensions   map[string]bool
	renderer     Renderer
	originalHelp func(*cobra.Command, []string)
}

// New creates a TopicManager with default options.
func New(topicsDir string) *TopicManager {
	return NewWithOptions(topicsDir, Options{})
}

// NewWithOptions creates a TopicManager for the given directory.
func NewWithOptions(topicsDir string, opts Options) *TopicManager {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".txt", ".md"}
	}
	extSet := make(map[string]bool, len(exts))
	for _, ext := range exts {
		extSet[ext] = true
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = &PlainRenderer{}
	}

	return &TopicManager{
		topicsDir:  topicsDir,
		topics:     make(map[string]*Topic),
		extensions: extSet,
		renderer:   renderer,
	}
}

// scanTopics loads every topic file under the topics directory.
// Subdirectories are walked; the topic name is always the bare file
// name, so "advanced/provenance.txt" registers as "provenance".
func (tm *TopicManager) scanTopics() error {
	if _, err := os.Stat(tm.topicsDir); os.IsNotExist(err) {
		// No topics shipped. Help still works for commands.
		return nil
	}

	return filepath.WalkDir(tm.topicsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if !tm.extensions[ext] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(path), ext)
		tm.topics[name] = &Topic{
			Name:     name,
			FilePath: path,
			Content:  string(content),
		}
		return nil
	})
}

// GetTopic looks up a topic by name. Flag spellings are accepted:
// "--dry-run" and "dry-run" both resolve, preferring an exact match
// and falling back to an "option-" prefixed file.
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, ok := tm.topics[name]; ok {
		return topic, true
	}
	topic, ok := tm.topics[optionPrefix+name]
	return topic, ok
}

// ListTopics returns the names of all loaded topics, unsorted.
func (tm *TopicManager) ListTopics() []string {
	names := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		names = append(names, name)
	}
	return names
}

// render formats a topic for display using the configured renderer.
func (tm *TopicManager) render(topic *Topic) string {
	return tm.renderer.Render(topic.Content, filepath.Ext(topic.FilePath))
}

// printTopicList writes the sorted topic index, separating flag
// documentation from general topics.
func (tm *TopicManager) printTopicList(appName string) {
	names := tm.ListTopics()
	if len(names) == 0 {
		fmt.Println("No help topics available.")
		return
	}
	sort.Strings(names)

	var general, options []string
	for _, name := range names {
		if strings.HasPrefix(name, optionPrefix) {
			options = append(options, strings.TrimPrefix(name, optionPrefix))
		} else {
			general = append(general, name)
		}
	}

	fmt.Println("Available help topics:")
	if len(general) > 0 {
		fmt.Println("\nGeneral topics:")
		for _, name := range general {
			fmt.Printf("  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Println("\nOption topics:")
		for _, name := range options {
			fmt.Printf("  --%s\n", name)
		}
	}
	fmt.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}

// helpCompletions merges command names and topic names for shell
// completion of the help command.
func (tm *TopicManager) helpCompletions(rootCmd *cobra.Command) []string {
	completions := []string{"topics"}
	for _, c := range rootCmd.Commands() {
		if !c.Hidden {
			completions = append(completions, c.Name())
		}
	}
	return append(completions, tm.ListTopics()...)
}

// Initialize installs the topic help system on rootCmd with default
// options.
func Initialize(rootCmd *cobra.Command, topicsDir string) error {
	return InitializeWithOptions(rootCmd, topicsDir, Options{})
}

// InitializeWithOptions installs a replacement help command on rootCmd
// that resolves topics before falling back to Cobra's own help. The
// --help flag path is hooked the same way.
func InitializeWithOptions(rootCmd *cobra.Command, topicsDir string, opts Options) error {
	tm := NewWithOptions(topicsDir, opts)
	if err := tm.scanTopics(); err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	tm.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf(`Help provides help for any command or topic in the application.
Simply type %[1]s help [path to command or topic] for full details.

To see all available help topics:
  %[1]s help topics`, rootCmd.Name()),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tm.helpCompletions(rootCmd), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				tm.originalHelp(rootCmd, []string{})
			case args[0] == "topics":
				tm.printTopicList(rootCmd.Name())
			default:
				if topic, ok := tm.GetTopic(args[0]); ok {
					fmt.Print(tm.render(topic))
					return
				}
				tm.originalHelp(rootCmd, args)
			}
		},
	}

	// Replace cobra's builtin help command.
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := tm.GetTopic(args[0]); ok {
				fmt.Print(tm.render(topic))
				return
			}
		}
		tm.originalHelp(cmd, args)
	})

	return nil
}
