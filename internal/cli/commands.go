// Package cli implements the ocp command line.
package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/arthur-debert/ocp/internal/version"
	"github.com/arthur-debert/ocp/pkg/cobrax/topics"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/arthur-debert/ocp/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

// Execute runs the command line and returns the process exit code. Errors
// are written to stderr in the format selected with --format.
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	value, _ := rootCmd.PersistentFlags().GetString("format")
	format, perr := ui.ParseFormat(value)
	if perr != nil {
		format = ui.FormatAuto
	}
	renderer, rerr := ui.NewRenderer(format, os.Stderr)
	if rerr != nil || renderer.RenderError(err) != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCmd(d deps) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	if d.now == nil {
		d.now = time.Now
	}
	if d.stdin == nil {
		d.stdin = os.Stdin
	}

	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "ocp",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.CommandPath()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&flags.format, "format", "f", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVarP(&flags.targetDir, "target-dir", "t", "", MsgFlagTargetDir)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagDirname("target-dir")

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(newProfileCmd(flags, d))
	rootCmd.AddCommand(newRepositoryCmd(flags, d))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Help topics are embedded, so this only fails on a broken build
	if sub, err := fs.Sub(topicFiles, "topics"); err == nil {
		_, _ = topics.InitializeWithOptions(rootCmd, sub, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.Markdown(0),
		})
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
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
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil && helpCmd.Name() == "help" {
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
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
