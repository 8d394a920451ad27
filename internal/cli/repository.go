package cli

import (
	"fmt"

	"github.com/arthur-debert/ocp/pkg/ui/views"
	"github.com/spf13/cobra"
)

func newRepositoryCmd(flags *globalFlags, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repository",
		Aliases: []string{"repo"},
		Short:   MsgRepositoryShort,
		Example: MsgRepositoryExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRepositoryAddCmd(flags, d))
	cmd.AddCommand(newRepositoryDeleteCmd(flags, d))
	cmd.AddCommand(newRepositoryListCmd(flags, d))
	cmd.AddCommand(newRepositoryCreateCmd(flags, d))
	return cmd
}

// repositoryNamesCompletion provides shell completion for configured repositories
func repositoryNamesCompletion(flags *globalFlags, d deps) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		a, err := newApp(flags, d)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		entries, err := a.registry.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func newRepositoryAddCmd(flags *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "add <uri>",
		Short: MsgRepoAddShort,
		Long:  "Add clones the repository at <uri> into the ocp cache and registers it. The local name is derived from the URI.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			entry, err := a.registry.Add(args[0])
			if err != nil {
				return err
			}
			return o.success(fmt.Sprintf(MsgRepoAdded, entry.Name))
		},
	}
}

func newRepositoryDeleteCmd(flags *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Aliases:           []string{"rm"},
		Short:             MsgRepoDeleteShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: repositoryNamesCompletion(flags, d),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			entry, err := a.registry.Delete(args[0])
			if err != nil {
				return err
			}
			return o.success(fmt.Sprintf(MsgRepoDeleted, entry.Name))
		},
	}
}

func newRepositoryListCmd(flags *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgRepoListShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			entries, err := a.registry.Load()
			if err != nil {
				return err
			}
			byRepo, err := a.repositoryProfiles(entries)
			if err != nil {
				return err
			}
			return o.result(views.NewRepositoryList(entries, byRepo))
		},
	}
}

func newRepositoryCreateCmd(flags *globalFlags, d deps) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: MsgRepoCreateShort,
		Long: `Create makes a new directory <name> below the current directory with a
repository.json, an optional first profile and an initialised git repository.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			path, err := a.registry.Create(a.paths.WorkingDir(), args[0], profileName)
			if err != nil {
				return err
			}
			return o.success(fmt.Sprintf(MsgRepoCreated, path))
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile-name", "p", "", MsgFlagProfileName)
	return cmd
}
