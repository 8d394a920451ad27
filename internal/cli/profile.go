package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/profiles"
	"github.com/arthur-debert/ocp/pkg/ui/prompt"
	"github.com/arthur-debert/ocp/pkg/ui/views"
	"github.com/spf13/cobra"
)

// onConflictPrompt asks interactively; every other --on-conflict value is
// a profiles.Resolution name.
const onConflictPrompt = "prompt"

func newProfileCmd(flags *globalFlags, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   MsgProfileShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newProfileListCmd(flags, d))
	cmd.AddCommand(newProfileUseCmd(flags, d))
	cmd.AddCommand(newProfileShowCmd(flags, d))
	cmd.AddCommand(newProfileCreateCmd(flags, d))
	cmd.AddCommand(newProfileRefreshCmd(flags, d))
	return cmd
}

// profileNamesCompletion provides shell completion for profile names
func profileNamesCompletion(flags *globalFlags, d deps) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
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
		byRepo, err := a.repositoryProfiles(entries)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var names []string
		for _, repoProfiles := range byRepo {
			for _, name := range repoProfiles {
				if strings.HasPrefix(name, toComplete) {
					names = append(names, name)
				}
			}
		}
		sort.Strings(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func newProfileListCmd(flags *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgProfileListShort,
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

			done := o.progress(MsgCheckingVersions)
			list, err := a.profiles.List()
			done()
			if err != nil {
				return err
			}

			if len(list) == 0 && !o.format.IsMachine() {
				o.warning(MsgNoProfiles)
				return nil
			}
			return o.result(views.ProfileList{Profiles: list})
		},
	}
}

func newProfileUseCmd(flags *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:               "use <profile>",
		Short:             MsgProfileUseShort,
		Long:              MsgUseLong,
		Example:           MsgUseExample,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileNamesCompletion(flags, d),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			result, err := a.profiles.Use(args[0])
			if err != nil {
				return err
			}
			if err := o.result(views.NewActivation(result, a.targetDir)); err != nil {
				return err
			}
			a.profiles.UpdateHints(o.err)
			return nil
		},
	}
}

func newProfileShowCmd(flags *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:               "show [profile]",
		Short:             MsgProfileShowShort,
		Long:              "Show resolves a profile without changing anything on disk. Without a name, the active profile is shown.",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: profileNamesCompletion(flags, d),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				active, err := a.profiles.Active()
				if err != nil {
					return err
				}
				name = active.Name
			}

			details, err := a.profiles.Show(name)
			if err != nil {
				return err
			}
			return o.result(views.NewProfileDetails(details))
		},
	}
}

func newProfileCreateCmd(flags *globalFlags, d deps) *cobra.Command {
	var def lineage.Definition

	cmd := &cobra.Command{
		Use:   "create [profile]",
		Short: MsgProfileCreateShort,
		Long: `Create adds a profile to the repository.json of the current directory and
creates its (empty) profile directory. The name defaults to "default".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			def.Name = "default"
			if len(args) == 1 {
				def.Name = args[0]
			}
			dir, err := a.profiles.Create(def)
			if err != nil {
				return err
			}
			return o.success(fmt.Sprintf(MsgProfileCreated, strings.TrimSpace(def.Name), dir))
		},
	}

	cmd.Flags().StringVarP(&def.Description, "description", "d", "", MsgFlagDescription)
	cmd.Flags().StringVarP(&def.Parent, "extends", "e", "", MsgFlagExtends)
	return cmd
}

func newProfileRefreshCmd(flags *globalFlags, d deps) *cobra.Command {
	var onConflict string

	cmd := &cobra.Command{
		Use:               "refresh [profile]",
		Short:             MsgRefreshShort,
		Long:              MsgRefreshLong,
		Example:           MsgRefreshExample,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: profileNamesCompletion(flags, d),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := parseOnConflict(onConflict)
			if err != nil {
				return err
			}
			a, err := newApp(flags, d)
			if err != nil {
				return err
			}
			o, err := newOutput(cmd, a.format)
			if err != nil {
				return err
			}

			r := &refresher{
				service: a.profiles,
				out:     o,
				policy:  policy,
				prompt:  prompt.NewConflictPrompt(d.stdin, o.err),
			}
			if len(args) == 1 {
				r.name = args[0]
			}
			return r.run()
		},
	}

	cmd.Flags().StringVar(&onConflict, "on-conflict", onConflictPrompt, MsgFlagOnConflict)
	_ = cmd.RegisterFlagCompletionFunc("on-conflict", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{onConflictPrompt, "discard", "commit", "nothing"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// parseOnConflict returns nil for the interactive prompt.
func parseOnConflict(value string) (*profiles.Resolution, error) {
	if strings.EqualFold(strings.TrimSpace(value), onConflictPrompt) {
		return nil, nil
	}
	r, err := profiles.ParseResolution(value)
	if err != nil {
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrOnConflict, value)
	}
	return &r, nil
}

// refresher runs a refresh and resolves conflicts until it succeeds, the
// user gives up, or a resolution does not clear a conflict.
type refresher struct {
	service *profiles.Service
	out     *output
	name    string
	policy  *profiles.Resolution
	prompt  *prompt.ConflictPrompt
}

func (r *refresher) refresh() (*profiles.RefreshResult, error) {
	if r.name == "" {
		return r.service.RefreshAll()
	}
	return r.service.Refresh(r.name)
}

func (r *refresher) choose(c profiles.Conflict) (profiles.Resolution, error) {
	if r.policy != nil {
		r.out.warning(fmt.Sprintf("Local uncommitted changes detected in repository `%s`.", c.Repository))
		return *r.policy, nil
	}
	return r.prompt.Ask(c)
}

func (r *refresher) run() error {
	applied := map[profiles.Resolution]bool{}
	resolved := map[string]profiles.Resolution{}

	for {
		result, err := r.refresh()
		if err == nil {
			if result.Reactivated != "" {
				r.out.info(fmt.Sprintf(MsgReactivated, result.Reactivated))
			}
			return r.out.success(r.summary(applied))
		}

		conflict, ok := profiles.AsConflict(err)
		if !ok {
			return err
		}
		if previous, seen := resolved[conflict.Repository]; seen {
			return errors.Newf(errors.ErrRefreshConflict, MsgConflictUnresolved, conflict.Repository, previous).
				WithDetail("repository", conflict.Repository)
		}

		resolution, err := r.choose(conflict)
		if err != nil {
			return err
		}
		if resolution == profiles.ResolveNothing {
			return errors.New(errors.ErrRefreshConflict, MsgRefreshCancelled).
				WithDetail("repository", conflict.Repository)
		}

		if err := r.apply(conflict, resolution); err != nil {
			return err
		}
		applied[resolution] = true
		resolved[conflict.Repository] = resolution
	}
}

func (r *refresher) apply(c profiles.Conflict, resolution profiles.Resolution) error {
	start, done := MsgDiscarding, MsgDiscarded
	if resolution == profiles.ResolveCommitAndForcePush {
		start, done = MsgForcePushing, MsgForcePushed
	}
	r.out.info(fmt.Sprintf(start, c.Repository))
	if _, err := r.service.ResolveConflict(c, resolution); err != nil {
		return err
	}
	r.out.info(fmt.Sprintf(done, c.Repository))
	return nil
}

func (r *refresher) summary(applied map[profiles.Resolution]bool) string {
	if r.name == "" {
		switch {
		case applied[profiles.ResolveCommitAndForcePush]:
			return MsgForcePushedAll
		case applied[profiles.ResolveDiscard]:
			return MsgDiscardedAll
		default:
			return MsgRefreshedAll
		}
	}
	switch {
	case applied[profiles.ResolveCommitAndForcePush]:
		return fmt.Sprintf(MsgForcePushedProfile, r.name)
	case applied[profiles.ResolveDiscard]:
		return fmt.Sprintf(MsgDiscardedProfile, r.name)
	default:
		return fmt.Sprintf(MsgRefreshedProfile, r.name)
	}
}
